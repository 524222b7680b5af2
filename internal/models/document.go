package models

import "time"

type DocumentType string

const (
	DocInvoice     DocumentType = "invoice"
	DocQuote       DocumentType = "quote"
	DocContract    DocumentType = "contract"
	DocReport      DocumentType = "report"
	DocCertificate DocumentType = "certificate"
	DocManual      DocumentType = "manual"
	DocImage       DocumentType = "image"
	DocOther       DocumentType = "other"
)

type Document struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string       `gorm:"size:255;not null;index" json:"name"`
	Description  string       `gorm:"type:text" json:"description,omitempty"`
	DocumentType DocumentType `gorm:"type:varchar(20);not null" json:"document_type"`
	FilePath     string       `gorm:"size:500;not null" json:"file_path"`
	FileSize     *int64       `json:"file_size,omitempty"`
	MimeType     string       `gorm:"size:100" json:"mime_type,omitempty"`

	UploadedBy     uint  `gorm:"not null" json:"uploaded_by"`
	ServiceOrderID *uint `gorm:"index" json:"service_order_id,omitempty"`
	AssetID        *uint `gorm:"index" json:"asset_id,omitempty"`

	IsPublic       bool       `gorm:"not null;default:false" json:"is_public"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// Ownership resolves through the service order when the document is attached
// to one, otherwise through the asset.
func (d Document) Ownership() Ownership {
	if ref := parent(ParentServiceOrder, d.ServiceOrderID); ref != nil {
		return Ownership{Parent: ref}
	}
	return Ownership{Parent: parent(ParentAsset, d.AssetID)}
}
