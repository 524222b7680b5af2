package handlers

import (
	"fmt"
	"net/http"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type paymentCreate struct {
	Amount         float64              `json:"amount" binding:"required,gt=0"`
	Currency       string               `json:"currency" binding:"omitempty,len=3"`
	PaymentMethod  models.PaymentMethod `json:"payment_method" binding:"required,oneof=credit_card debit_card bank_transfer pix boleto cash other"`
	Details        datatypes.JSON       `json:"payment_details"`
	ServiceOrderID *uint                `json:"service_order_id"`
	InvoiceID      *uint                `json:"invoice_id"`
}

type paymentPatch struct {
	Status  *models.PaymentStatus `json:"status" binding:"omitempty,oneof=pending completed failed refunded partially_refunded cancelled"`
	Details datatypes.JSON        `json:"payment_details" gorm:"column:details"`
}

type invoiceCreate struct {
	ServiceOrderID *uint     `json:"service_order_id"`
	Amount         float64   `json:"amount" binding:"required,gt=0"`
	TaxAmount      float64   `json:"tax_amount" binding:"min=0"`
	DiscountAmount float64   `json:"discount_amount" binding:"min=0"`
	BillingName    string    `json:"billing_name" binding:"required,max=255"`
	BillingTaxID   string    `json:"billing_tax_id" binding:"max=32"`
	BillingAddress string    `json:"billing_address"`
	DueDate        time.Time `json:"due_date" binding:"required"`
}

// CreatePayment records a payment for an order the caller owns. Payments
// not tied to an order are admin-only.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req paymentCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	if req.ServiceOrderID != nil {
		if _, err := repository.NewOrders(tx(c)).Get(ctx(c), *req.ServiceOrderID); err != nil {
			fail(c, relationErr(err, "the service order does not exist"))
			return
		}
	}
	if req.InvoiceID != nil {
		inv, err := repository.NewInvoices(tx(c)).Get(ctx(c), *req.InvoiceID)
		if err != nil {
			fail(c, relationErr(err, "the invoice does not exist"))
			return
		}
		if req.ServiceOrderID != nil && (inv.ServiceOrderID == nil || *inv.ServiceOrderID != *req.ServiceOrderID) {
			fail(c, apperr.InvalidRelation("the invoice belongs to another service order"))
			return
		}
	}
	if req.Currency == "" {
		req.Currency = "BRL"
	}

	pay := &models.Payment{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         models.PaymentPending,
		PaymentMethod:  req.PaymentMethod,
		Details:        req.Details,
		ServiceOrderID: req.ServiceOrderID,
		InvoiceID:      req.InvoiceID,
	}
	if err := access(c).Authorize(ctx(c), me(c), *pay, policy.RelOwner, "create this payment"); err != nil {
		fail(c, err)
		return
	}

	pay, err := repository.NewPayments(tx(c)).CreateWithCreator(ctx(c), pay, me(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "payment", pay.ID, "create", fmt.Sprintf("payment of %.2f %s", pay.Amount, pay.Currency)); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, pay)
}

func (h *Handler) GetPayment(c *gin.Context) {
	pay, ok := load(c, "id", repository.NewPayments(tx(c)).Get, policy.RelAssignee, "access this payment")
	if !ok {
		return
	}
	respond(c, http.StatusOK, pay)
}

// UpdatePayment stamps paid_at and refunded_at the first time the payment
// reaches those states. A paid invoice is marked paid along with it.
func (h *Handler) UpdatePayment(c *gin.Context) {
	payments := repository.NewPayments(tx(c))
	pay, ok := load(c, "id", payments.Get, policy.RelOwner, "update this payment")
	if !ok {
		return
	}
	var patch paymentPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}

	changes, err := repository.Changes(patch)
	if err != nil {
		fail(c, apperr.Internal(err, "building payment patch"))
		return
	}
	now := h.now()
	if patch.Status != nil {
		switch *patch.Status {
		case models.PaymentCompleted:
			if pay.PaidAt == nil {
				changes["paid_at"] = now
			}
		case models.PaymentRefunded, models.PaymentPartiallyRefunded:
			if pay.RefundedAt == nil {
				changes["refunded_at"] = now
			}
		}
	}

	from := pay.Status
	pay, err = payments.UpdateColumns(ctx(c), pay, changes)
	if err != nil {
		fail(c, err)
		return
	}

	if pay.Status == models.PaymentCompleted && pay.InvoiceID != nil {
		invoices := repository.NewInvoices(tx(c))
		inv, err := invoices.Get(ctx(c), *pay.InvoiceID)
		if err != nil && apperr.Status(err) != http.StatusNotFound {
			fail(c, err)
			return
		}
		if inv != nil && inv.Status != models.PaymentCompleted {
			if _, err := invoices.UpdateColumns(ctx(c), inv, map[string]any{
				"status":    models.PaymentCompleted,
				"paid_date": now,
			}); err != nil {
				fail(c, err)
				return
			}
		}
	}

	if err := h.audit(c, "payment", pay.ID, "update", fmt.Sprintf("status %s -> %s", from, pay.Status)); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, pay)
}

// CreateInvoice is admin-only; the route enforces the role.
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req invoiceCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	if req.ServiceOrderID != nil {
		if _, err := repository.NewOrders(tx(c)).Get(ctx(c), *req.ServiceOrderID); err != nil {
			fail(c, relationErr(err, "the service order does not exist"))
			return
		}
	}

	inv := &models.Invoice{
		Amount:         req.Amount,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		BillingName:    req.BillingName,
		BillingTaxID:   req.BillingTaxID,
		BillingAddress: req.BillingAddress,
		Status:         models.PaymentPending,
		DueDate:        req.DueDate,
		ServiceOrderID: req.ServiceOrderID,
	}
	inv.TotalAmount = inv.Total()
	if inv.TotalAmount < 0 {
		fail(c, apperr.Validation("discount exceeds the invoice amount"))
		return
	}

	inv, err := repository.NewInvoices(tx(c)).CreateNumbered(ctx(c), inv, h.now())
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "invoice", inv.ID, "create", "issued invoice "+inv.InvoiceNumber); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, inv)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	inv, ok := load(c, "id", repository.NewInvoices(tx(c)).Get, policy.RelAssignee, "access this invoice")
	if !ok {
		return
	}
	respond(c, http.StatusOK, inv)
}
