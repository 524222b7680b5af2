package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maintenance-hub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Documents struct {
	*Repository[models.Document]
}

func NewDocuments(db *gorm.DB) *Documents {
	return &Documents{New[models.Document](db, "document", "")}
}

func (r *Documents) ListByOrder(ctx context.Context, orderID uint, page Page) ([]models.Document, error) {
	return r.ListBy(ctx, "service_order_id", orderID, page)
}

func (r *Documents) ListByAsset(ctx context.Context, assetID uint, page Page) ([]models.Document, error) {
	return r.ListBy(ctx, "asset_id", assetID, page)
}

func (r *Documents) CreateWithUploader(ctx context.Context, in *models.Document, uploadedBy uint) (*models.Document, error) {
	return r.Create(ctx, in, func(d *models.Document) {
		d.ID = 0
		d.UploadedBy = uploadedBy
	})
}

type Payments struct {
	*Repository[models.Payment]
}

func NewPayments(db *gorm.DB) *Payments {
	return &Payments{New[models.Payment](db, "payment", "")}
}

func (r *Payments) ListByOrder(ctx context.Context, orderID uint, page Page) ([]models.Payment, error) {
	return r.ListBy(ctx, "service_order_id", orderID, page)
}

func (r *Payments) CreateWithCreator(ctx context.Context, in *models.Payment, createdBy uint) (*models.Payment, error) {
	return r.Create(ctx, in, func(p *models.Payment) {
		p.ID = 0
		p.CreatedBy = createdBy
	})
}

type Invoices struct {
	*Repository[models.Invoice]
}

func NewInvoices(db *gorm.DB) *Invoices {
	return &Invoices{New[models.Invoice](db, "invoice", "")}
}

func (r *Invoices) ListByOrder(ctx context.Context, orderID uint, page Page) ([]models.Invoice, error) {
	return r.ListBy(ctx, "service_order_id", orderID, page)
}

// CreateNumbered assigns a fresh invoice number and the computed total.
func (r *Invoices) CreateNumbered(ctx context.Context, in *models.Invoice, now time.Time) (*models.Invoice, error) {
	return r.Create(ctx, in, func(inv *models.Invoice) {
		inv.ID = 0
		inv.InvoiceNumber = InvoiceNumber(now)
		inv.TotalAmount = inv.Total()
	})
}

// InvoiceNumber renders INV-<yyyymmdd>-<8 hex>.
func InvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102"), suffix)
}
