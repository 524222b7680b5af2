package handlers

import (
	"net/http"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

type documentCreate struct {
	Name           string              `json:"name" binding:"required,max=255"`
	Description    string              `json:"description"`
	DocumentType   models.DocumentType `json:"document_type" binding:"required,oneof=invoice quote contract report certificate manual image other"`
	FilePath       string              `json:"file_path" binding:"required,max=500"`
	FileSize       *int64              `json:"file_size" binding:"omitempty,min=0"`
	MimeType       string              `json:"mime_type" binding:"max=100"`
	ServiceOrderID *uint               `json:"service_order_id"`
	AssetID        *uint               `json:"asset_id"`
	IsPublic       bool                `json:"is_public"`
	ExpirationDate *time.Time          `json:"expiration_date"`
}

type documentPatch struct {
	Name           *string              `json:"name" binding:"omitempty,min=1,max=255"`
	Description    *string              `json:"description"`
	DocumentType   *models.DocumentType `json:"document_type" binding:"omitempty,oneof=invoice quote contract report certificate manual image other"`
	IsPublic       *bool                `json:"is_public"`
	ExpirationDate *time.Time           `json:"expiration_date"`
}

// CreateDocument attaches document metadata to an order or an asset. The
// caller needs the same access to the parent that editing it would need.
func (h *Handler) CreateDocument(c *gin.Context) {
	var req documentCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	if req.ServiceOrderID == nil && req.AssetID == nil && !me(c).IsAdmin() {
		fail(c, apperr.Validation("a document must reference a service order or an asset"))
		return
	}
	if req.ServiceOrderID != nil {
		if _, err := repository.NewOrders(tx(c)).Get(ctx(c), *req.ServiceOrderID); err != nil {
			fail(c, relationErr(err, "the service order does not exist"))
			return
		}
	}
	if req.AssetID != nil {
		asset, err := repository.NewAssets(tx(c)).Get(ctx(c), *req.AssetID)
		if err != nil {
			fail(c, relationErr(err, "the asset does not exist"))
			return
		}
		// ownership resolves through the order when both are set, so the
		// asset link needs its own check
		if err := access(c).Authorize(ctx(c), me(c), asset, policy.RelOwner, "attach documents to this asset"); err != nil {
			fail(c, err)
			return
		}
	}

	doc := &models.Document{
		Name:           req.Name,
		Description:    req.Description,
		DocumentType:   req.DocumentType,
		FilePath:       req.FilePath,
		FileSize:       req.FileSize,
		MimeType:       req.MimeType,
		ServiceOrderID: req.ServiceOrderID,
		AssetID:        req.AssetID,
		IsPublic:       req.IsPublic,
		ExpirationDate: req.ExpirationDate,
	}
	if err := access(c).Authorize(ctx(c), me(c), *doc, policy.RelAssignee, "attach documents here"); err != nil {
		fail(c, err)
		return
	}

	doc, err := repository.NewDocuments(tx(c)).CreateWithUploader(ctx(c), doc, me(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "document", doc.ID, "create", "uploaded document: "+doc.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, doc)
}

// GetDocument: public documents are readable by every signed-in user.
func (h *Handler) GetDocument(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	doc, err := repository.NewDocuments(tx(c)).Get(ctx(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	if !doc.IsPublic {
		if err := access(c).Authorize(ctx(c), me(c), *doc, policy.RelAssignee, "access this document"); err != nil {
			fail(c, err)
			return
		}
	}
	respond(c, http.StatusOK, doc)
}

func (h *Handler) UpdateDocument(c *gin.Context) {
	docs := repository.NewDocuments(tx(c))
	doc, ok := load(c, "id", docs.Get, policy.RelAssignee, "update this document")
	if !ok {
		return
	}
	var patch documentPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}
	doc, err := docs.Update(ctx(c), doc, patch)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "document", doc.ID, "update", "updated document: "+doc.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, doc)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	docs := repository.NewDocuments(tx(c))
	doc, ok := load(c, "id", docs.Get, policy.RelAssignee, "delete this document")
	if !ok {
		return
	}
	prev, err := docs.Delete(ctx(c), doc.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "document", prev.ID, "delete", "deleted document: "+prev.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, prev)
}

// relationErr turns a missing referenced record into InvalidRelation.
func relationErr(err error, msg string) error {
	if apperr.Status(err) == http.StatusNotFound {
		return apperr.InvalidRelation("%s", msg)
	}
	return err
}
