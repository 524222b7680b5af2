package handlers

import (
	"net/http"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type inventoryCreate struct {
	Name             string   `json:"name" binding:"required,max=255"`
	Description      string   `json:"description"`
	SKU              string   `json:"sku" binding:"required,max=100"`
	AssetID          *uint    `json:"asset_id"`
	SupplierID       *uint    `json:"supplier_id"`
	QuantityOnHand   int      `json:"quantity_on_hand" binding:"min=0"`
	QuantityReserved int      `json:"quantity_reserved" binding:"min=0"`
	ReorderPoint     int      `json:"reorder_point" binding:"min=0"`
	ReorderQuantity  *int     `json:"reorder_quantity" binding:"omitempty,min=1"`
	UnitOfMeasure    string   `json:"unit_of_measure" binding:"max=32"`
	CostPrice        *float64 `json:"cost_price" binding:"omitempty,min=0"`
	SellingPrice     *float64 `json:"selling_price" binding:"omitempty,min=0"`
	Location         string   `json:"location" binding:"max=255"`
	BinLocation      string   `json:"bin_location" binding:"max=100"`
}

type inventoryPatch struct {
	Name             *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description      *string  `json:"description"`
	SKU              *string  `json:"sku" binding:"omitempty,min=1,max=100"`
	AssetID          *uint    `json:"asset_id"`
	SupplierID       *uint    `json:"supplier_id"`
	QuantityOnHand   *int     `json:"quantity_on_hand" binding:"omitempty,min=0"`
	QuantityReserved *int     `json:"quantity_reserved" binding:"omitempty,min=0"`
	ReorderPoint     *int     `json:"reorder_point" binding:"omitempty,min=0"`
	ReorderQuantity  *int     `json:"reorder_quantity" binding:"omitempty,min=1"`
	UnitOfMeasure    *string  `json:"unit_of_measure" binding:"omitempty,max=32"`
	CostPrice        *float64 `json:"cost_price" binding:"omitempty,min=0"`
	SellingPrice     *float64 `json:"selling_price" binding:"omitempty,min=0"`
	Location         *string  `json:"location" binding:"omitempty,max=255"`
	BinLocation      *string  `json:"bin_location" binding:"omitempty,max=100"`
	IsActive         *bool    `json:"is_active"`
}

// ListInventory: admins see every item, everyone else the items of assets
// they own.
func (h *Handler) ListInventory(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}

	inv := repository.NewInventory(tx(c))
	var out []models.InventoryItem
	if me(c).IsAdmin() {
		out, err = inv.List(ctx(c), p)
	} else {
		out, err = inv.ListByAssetOwner(ctx(c), me(c).ID, p)
	}
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) CreateInventoryItem(c *gin.Context) {
	var req inventoryCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	if err := h.checkItemParent(c, req.AssetID); err != nil {
		fail(c, err)
		return
	}
	if err := h.checkSupplier(c, req.SupplierID); err != nil {
		fail(c, err)
		return
	}

	item := &models.InventoryItem{
		Name:             req.Name,
		Description:      req.Description,
		SKU:              req.SKU,
		SupplierID:       req.SupplierID,
		QuantityOnHand:   req.QuantityOnHand,
		QuantityReserved: req.QuantityReserved,
		ReorderPoint:     req.ReorderPoint,
		ReorderQuantity:  1,
		UnitOfMeasure:    req.UnitOfMeasure,
		CostPrice:        req.CostPrice,
		SellingPrice:     req.SellingPrice,
		Location:         req.Location,
		BinLocation:      req.BinLocation,
		IsActive:         true,
	}
	if req.ReorderQuantity != nil {
		item.ReorderQuantity = *req.ReorderQuantity
	}
	if item.UnitOfMeasure == "" {
		item.UnitOfMeasure = "unit"
	}

	item, err := repository.NewInventory(tx(c)).CreateWithAsset(ctx(c), item, req.AssetID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "inventory_item", item.ID, "create", "created inventory item: "+item.SKU); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

func (h *Handler) GetInventoryItem(c *gin.Context) {
	item, ok := load(c, "id", repository.NewInventory(tx(c)).Get, policy.RelOwner, "access this inventory item")
	if !ok {
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	inv := repository.NewInventory(tx(c))
	item, ok := load(c, "id", inv.Get, policy.RelOwner, "update this inventory item")
	if !ok {
		return
	}

	var patch inventoryPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}
	if patch.AssetID != nil && (item.AssetID == nil || *item.AssetID != *patch.AssetID) {
		if err := h.checkItemParent(c, patch.AssetID); err != nil {
			fail(c, err)
			return
		}
	}
	if err := h.checkSupplier(c, patch.SupplierID); err != nil {
		fail(c, err)
		return
	}

	item, err := inv.Update(ctx(c), item, patch)
	if err != nil {
		fail(c, err)
		return
	}
	if item.NeedsReorder() {
		h.Log.WithFields(logrus.Fields{"item_id": item.ID, "sku": item.SKU}).Info("inventory item at reorder point")
	}
	if err := h.audit(c, "inventory_item", item.ID, "update", "updated inventory item: "+item.SKU); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	inv := repository.NewInventory(tx(c))
	item, ok := load(c, "id", inv.Get, policy.RelOwner, "delete this inventory item")
	if !ok {
		return
	}
	prev, err := inv.Delete(ctx(c), item.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "inventory_item", prev.ID, "delete", "deleted inventory item: "+prev.SKU); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, prev)
}

// checkItemParent: items must hang off an asset the caller owns. Only admins
// keep unlinked stock.
func (h *Handler) checkItemParent(c *gin.Context, assetID *uint) error {
	if assetID == nil {
		if !me(c).IsAdmin() {
			return apperr.Forbidden("only admins can keep inventory not linked to an asset")
		}
		return nil
	}
	asset, err := repository.NewAssets(tx(c)).Get(ctx(c), *assetID)
	if err != nil {
		if apperr.Status(err) == http.StatusNotFound {
			return apperr.InvalidRelation("the asset does not exist")
		}
		return err
	}
	return access(c).Authorize(ctx(c), me(c), asset, policy.RelOwner, "add inventory to this asset")
}

func (h *Handler) checkSupplier(c *gin.Context, supplierID *uint) error {
	if supplierID == nil {
		return nil
	}
	_, err := repository.NewSuppliers(tx(c)).Get(ctx(c), *supplierID)
	if err != nil && apperr.Status(err) == http.StatusNotFound {
		return apperr.InvalidRelation("the supplier does not exist")
	}
	return err
}
