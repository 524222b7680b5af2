package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentCompleted         PaymentStatus = "completed"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentCancelled         PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodPix          PaymentMethod = "pix"
	MethodBoleto       PaymentMethod = "boleto"
	MethodCash         PaymentMethod = "cash"
	MethodOther        PaymentMethod = "other"
)

type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Amount        float64       `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"size:3;not null;default:BRL" json:"currency"`
	Status        PaymentStatus `gorm:"type:varchar(32);not null;default:pending" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(32);not null" json:"payment_method"`

	Details datatypes.JSON `json:"payment_details,omitempty"`

	ServiceOrderID *uint `gorm:"index" json:"service_order_id,omitempty"`
	InvoiceID      *uint `gorm:"index" json:"invoice_id,omitempty"`

	PaidAt     *time.Time `json:"paid_at,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`

	CreatedBy uint `gorm:"not null" json:"created_by"`
}

func (p Payment) Ownership() Ownership {
	return Ownership{Parent: parent(ParentServiceOrder, p.ServiceOrderID)}
}

type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InvoiceNumber  string  `gorm:"uniqueIndex;size:64;not null" json:"invoice_number"`
	Amount         float64 `gorm:"not null" json:"amount"`
	TaxAmount      float64 `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    float64 `gorm:"not null" json:"total_amount"`

	BillingName    string `gorm:"size:255;not null" json:"billing_name"`
	BillingTaxID   string `gorm:"size:32" json:"billing_tax_id,omitempty"`
	BillingAddress string `gorm:"type:text" json:"billing_address,omitempty"`

	Status   PaymentStatus `gorm:"type:varchar(32);not null;default:pending" json:"status"`
	DueDate  time.Time     `gorm:"not null" json:"due_date"`
	PaidDate *time.Time    `json:"paid_date,omitempty"`

	ServiceOrderID *uint `gorm:"index" json:"service_order_id,omitempty"`
}

func (inv Invoice) Ownership() Ownership {
	return Ownership{Parent: parent(ParentServiceOrder, inv.ServiceOrderID)}
}

// Total is amount plus tax minus discount.
func (inv Invoice) Total() float64 {
	return inv.Amount + inv.TaxAmount - inv.DiscountAmount
}
