package models

import "time"

type OrderStatus string

const (
	OrderDraft      OrderStatus = "draft"
	OrderPublished  OrderStatus = "published"
	OrderAssigned   OrderStatus = "assigned"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderOnHold     OrderStatus = "on_hold"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderDraft, OrderPublished, OrderAssigned, OrderInProgress,
		OrderCompleted, OrderCancelled, OrderOnHold:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions in strict mode.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type OrderPriority string

const (
	PriorityLow       OrderPriority = "low"
	PriorityMedium    OrderPriority = "medium"
	PriorityHigh      OrderPriority = "high"
	PriorityEmergency OrderPriority = "emergency"
)

type ServiceOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string        `gorm:"size:255;not null;index" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Status      OrderStatus   `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	Priority    OrderPriority `gorm:"type:varchar(20);not null;default:medium" json:"priority"`

	ClientID   uint  `gorm:"not null;index" json:"client_id"`
	ProviderID *uint `gorm:"index" json:"provider_id"`
	AssetID    *uint `gorm:"index" json:"asset_id,omitempty"`
	CreatedBy  uint  `gorm:"not null" json:"created_by"`

	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	ActualStart    *time.Time `json:"actual_start,omitempty"`
	ActualEnd      *time.Time `json:"actual_end,omitempty"`

	EstimatedCost  *float64 `json:"estimated_cost,omitempty"`
	ActualCost     *float64 `json:"actual_cost,omitempty"`
	TaxAmount      float64  `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64  `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    *float64 `json:"total_amount,omitempty"`

	Location        string `gorm:"size:255" json:"location,omitempty"`
	LocationDetails string `gorm:"type:text" json:"location_details,omitempty"`

	IsUrgent         bool   `gorm:"not null;default:false" json:"is_urgent"`
	RequiresApproval bool   `gorm:"not null;default:false" json:"requires_approval"`
	IsApproved       bool   `gorm:"not null;default:false" json:"is_approved"`
	ApprovalNotes    string `gorm:"type:text" json:"approval_notes,omitempty"`

	ChecklistItems []ChecklistItem `gorm:"constraint:OnDelete:CASCADE" json:"checklist_items,omitempty"`
}

func (o ServiceOrder) Ownership() Ownership {
	return Ownership{OwnerID: &o.ClientID, AssigneeID: o.ProviderID, CreatorID: &o.CreatedBy}
}

type ChecklistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ServiceOrderID uint   `gorm:"not null;index" json:"service_order_id"`
	Description    string `gorm:"size:500;not null" json:"description"`
	IsRequired     bool   `gorm:"not null" json:"is_required"`
	IsCompleted    bool   `gorm:"not null;default:false" json:"is_completed"`

	CompletedBy *uint      `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
}

func (ci ChecklistItem) Ownership() Ownership {
	return Ownership{Parent: parent(ParentServiceOrder, &ci.ServiceOrderID)}
}
