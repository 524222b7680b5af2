package repository

import (
	"context"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"

	"gorm.io/gorm"
)

type Assets struct {
	*Repository[models.Asset]
}

func NewAssets(db *gorm.DB) *Assets {
	return &Assets{New[models.Asset](db, "asset", "owner_id")}
}

// GetWithOrders loads the asset together with the service orders raised
// against it.
func (r *Assets) GetWithOrders(ctx context.Context, id uint) (*models.Asset, error) {
	var out models.Asset
	err := r.conn(ctx).
		Preload("ServiceOrders", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&out, id).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &out, nil
}

// CreateWithOwner stores in with the owner and creator stamped by the server.
func (r *Assets) CreateWithOwner(ctx context.Context, in *models.Asset, ownerID, createdBy uint) (*models.Asset, error) {
	return r.Create(ctx, in, func(a *models.Asset) {
		a.ID = 0
		a.OwnerID = ownerID
		a.CreatedBy = createdBy
	})
}

type Inventory struct {
	*Repository[models.InventoryItem]
}

func NewInventory(db *gorm.DB) *Inventory {
	return &Inventory{New[models.InventoryItem](db, "inventory item", "")}
}

func (r *Inventory) ListByAsset(ctx context.Context, assetID uint, page Page) ([]models.InventoryItem, error) {
	return r.ListBy(ctx, "asset_id", assetID, page)
}

// ListByAssetOwner returns the items whose asset belongs to ownerID. Items not
// linked to any asset are never included.
func (r *Inventory) ListByAssetOwner(ctx context.Context, ownerID uint, page Page) ([]models.InventoryItem, error) {
	return r.find(ctx, page, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN assets ON assets.id = inventory_items.asset_id").
			Where("assets.owner_id = ?", ownerID)
	})
}

func (r *Inventory) CreateWithAsset(ctx context.Context, in *models.InventoryItem, assetID *uint) (*models.InventoryItem, error) {
	return r.Create(ctx, in, func(i *models.InventoryItem) {
		i.ID = 0
		i.AssetID = assetID
	})
}

// DetachAsset unlinks every item of assetID, leaving them admin-only.
func (r *Inventory) DetachAsset(ctx context.Context, assetID uint) error {
	err := r.conn(ctx).Model(&models.InventoryItem{}).
		Where("asset_id = ?", assetID).
		Update("asset_id", nil).Error
	if err != nil {
		return apperr.Internal(err, "detaching inventory of asset %d", assetID)
	}
	return nil
}

// DetachSupplier clears the supplier of every item supplied by supplierID.
func (r *Inventory) DetachSupplier(ctx context.Context, supplierID uint) error {
	err := r.conn(ctx).Model(&models.InventoryItem{}).
		Where("supplier_id = ?", supplierID).
		Update("supplier_id", nil).Error
	if err != nil {
		return apperr.Internal(err, "detaching supplier %d", supplierID)
	}
	return nil
}

type Suppliers struct {
	*Repository[models.Supplier]
}

func NewSuppliers(db *gorm.DB) *Suppliers {
	return &Suppliers{New[models.Supplier](db, "supplier", "")}
}
