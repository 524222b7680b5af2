package handlers

import (
	"net/http"

	"maintenance-hub/internal/models"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

type supplierCreate struct {
	Name          string `json:"name" binding:"required,max=255"`
	ContactPerson string `json:"contact_person" binding:"max=255"`
	Email         string `json:"email" binding:"omitempty,email,max=255"`
	Phone         string `json:"phone" binding:"max=50"`
	Website       string `json:"website" binding:"omitempty,url,max=255"`
	TaxID         string `json:"tax_id" binding:"max=32"`
	Address       string `json:"address" binding:"max=255"`
	City          string `json:"city" binding:"max=100"`
	State         string `json:"state" binding:"max=100"`
	Country       string `json:"country" binding:"max=100"`
	PostalCode    string `json:"postal_code" binding:"max=20"`
	LeadTime      *int   `json:"lead_time" binding:"omitempty,min=0"`
	PaymentTerms  string `json:"payment_terms" binding:"max=255"`
	Notes         string `json:"notes"`
}

type supplierPatch struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=255"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=255"`
	Email         *string `json:"email" binding:"omitempty,email,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Website       *string `json:"website" binding:"omitempty,url,max=255"`
	TaxID         *string `json:"tax_id" binding:"omitempty,max=32"`
	Address       *string `json:"address" binding:"omitempty,max=255"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	State         *string `json:"state" binding:"omitempty,max=100"`
	Country       *string `json:"country" binding:"omitempty,max=100"`
	PostalCode    *string `json:"postal_code" binding:"omitempty,max=20"`
	LeadTime      *int    `json:"lead_time" binding:"omitempty,min=0"`
	PaymentTerms  *string `json:"payment_terms" binding:"omitempty,max=255"`
	Notes         *string `json:"notes"`
	IsActive      *bool   `json:"is_active"`
}

// Suppliers are a shared catalogue: anyone signed in reads it, admins and
// operators maintain it (see router).

func (h *Handler) ListSuppliers(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewSuppliers(tx(c)).List(ctx(c), p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) GetSupplier(c *gin.Context) {
	s, ok := h.loadSupplier(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, s)
}

func (h *Handler) CreateSupplier(c *gin.Context) {
	var req supplierCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	s, err := repository.NewSuppliers(tx(c)).Create(ctx(c), &models.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Website:       req.Website,
		TaxID:         req.TaxID,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		PostalCode:    req.PostalCode,
		LeadTime:      req.LeadTime,
		PaymentTerms:  req.PaymentTerms,
		Notes:         req.Notes,
		IsActive:      true,
	})
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "supplier", s.ID, "create", "created supplier: "+s.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, s)
}

func (h *Handler) UpdateSupplier(c *gin.Context) {
	s, ok := h.loadSupplier(c)
	if !ok {
		return
	}
	var patch supplierPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}
	s, err := repository.NewSuppliers(tx(c)).Update(ctx(c), s, patch)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "supplier", s.ID, "update", "updated supplier: "+s.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, s)
}

func (h *Handler) DeleteSupplier(c *gin.Context) {
	s, ok := h.loadSupplier(c)
	if !ok {
		return
	}
	if err := repository.NewInventory(tx(c)).DetachSupplier(ctx(c), s.ID); err != nil {
		fail(c, err)
		return
	}
	prev, err := repository.NewSuppliers(tx(c)).Delete(ctx(c), s.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "supplier", prev.ID, "delete", "deleted supplier: "+prev.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, prev)
}

func (h *Handler) loadSupplier(c *gin.Context) (*models.Supplier, bool) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return nil, false
	}
	s, err := repository.NewSuppliers(tx(c)).Get(ctx(c), id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return s, true
}
