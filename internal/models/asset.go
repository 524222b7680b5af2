package models

import (
	"time"

	"gorm.io/datatypes"
)

type AssetType string

const (
	AssetEquipment AssetType = "equipment"
	AssetMachine   AssetType = "machine"
	AssetVehicle   AssetType = "vehicle"
	AssetFacility  AssetType = "facility"
	AssetTool      AssetType = "tool"
	AssetComponent AssetType = "component"
	AssetOther     AssetType = "other"
)

type AssetStatus string

const (
	AssetOperational    AssetStatus = "operational"
	AssetMaintenance    AssetStatus = "maintenance"
	AssetOutOfService   AssetStatus = "out_of_service"
	AssetDecommissioned AssetStatus = "decommissioned"
	AssetQuarantine     AssetStatus = "quarantine"
)

type Asset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string      `gorm:"size:255;not null;index" json:"name"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	AssetType   AssetType   `gorm:"type:varchar(50);not null" json:"asset_type"`
	Status      AssetStatus `gorm:"type:varchar(50);not null;default:operational" json:"status"`

	SerialNumber *string `gorm:"uniqueIndex;size:100" json:"serial_number,omitempty"`
	ModelNumber  string  `gorm:"size:100" json:"model_number,omitempty"`
	Manufacturer string  `gorm:"size:255" json:"manufacturer,omitempty"`

	OwnerID   uint `gorm:"not null;index" json:"owner_id"`
	Owner     User `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedBy uint `gorm:"not null" json:"created_by"`

	CurrentLocation  string     `gorm:"size:255" json:"current_location,omitempty"`
	InstallationDate *time.Time `json:"installation_date,omitempty"`
	ExpectedLife     *int       `json:"expected_life,omitempty"` // months

	Specifications datatypes.JSON `json:"specifications,omitempty"`

	LastMaintenanceDate *time.Time `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date,omitempty"`
	MaintenanceInterval *int       `json:"maintenance_interval,omitempty"` // days

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	ServiceOrders []ServiceOrder `gorm:"foreignKey:AssetID;constraint:OnDelete:SET NULL" json:"service_orders,omitempty"`
}

func (a Asset) Ownership() Ownership {
	return Ownership{OwnerID: &a.OwnerID, CreatorID: &a.CreatedBy}
}

type InventoryItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"size:255;not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	SKU         string `gorm:"uniqueIndex;size:100;not null" json:"sku"`

	// ownership of the item is the ownership of its asset
	AssetID    *uint     `gorm:"index" json:"asset_id,omitempty"`
	Asset      *Asset    `json:"-"`
	SupplierID *uint     `gorm:"index" json:"supplier_id,omitempty"`
	Supplier   *Supplier `json:"-"`

	QuantityOnHand   int    `gorm:"not null;default:0" json:"quantity_on_hand"`
	QuantityReserved int    `gorm:"not null;default:0" json:"quantity_reserved"`
	ReorderPoint     int    `gorm:"not null;default:0" json:"reorder_point"`
	ReorderQuantity  int    `gorm:"not null;default:1" json:"reorder_quantity"`
	UnitOfMeasure    string `gorm:"size:32;not null;default:unit" json:"unit_of_measure"`

	CostPrice    *float64 `json:"cost_price,omitempty"`
	SellingPrice *float64 `json:"selling_price,omitempty"`

	Location    string `gorm:"size:255" json:"location,omitempty"`
	BinLocation string `gorm:"size:100" json:"bin_location,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}

func (i InventoryItem) Ownership() Ownership {
	return Ownership{Parent: parent(ParentAsset, i.AssetID)}
}

// NeedsReorder reports whether the free stock fell to the reorder point.
func (i InventoryItem) NeedsReorder() bool {
	return i.QuantityOnHand-i.QuantityReserved <= i.ReorderPoint
}

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string `gorm:"size:255;not null;index" json:"name"`
	ContactPerson string `gorm:"size:255" json:"contact_person,omitempty"`
	Email         string `gorm:"size:255" json:"email,omitempty"`
	Phone         string `gorm:"size:50" json:"phone,omitempty"`
	Website       string `gorm:"size:255" json:"website,omitempty"`
	TaxID         string `gorm:"size:32" json:"tax_id,omitempty"`

	Address    string `gorm:"size:255" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`

	LeadTime     *int   `json:"lead_time,omitempty"` // days
	PaymentTerms string `gorm:"size:255" json:"payment_terms,omitempty"`
	Notes        string `gorm:"type:text" json:"notes,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}
