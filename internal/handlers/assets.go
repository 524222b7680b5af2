package handlers

import (
	"net/http"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type assetCreate struct {
	Name                string             `json:"name" binding:"required,max=255"`
	Description         string             `json:"description"`
	AssetType           models.AssetType   `json:"asset_type" binding:"required,oneof=equipment machine vehicle facility tool component other"`
	Status              models.AssetStatus `json:"status" binding:"omitempty,oneof=operational maintenance out_of_service decommissioned quarantine"`
	SerialNumber        *string            `json:"serial_number" binding:"omitempty,max=100"`
	ModelNumber         string             `json:"model_number" binding:"max=100"`
	Manufacturer        string             `json:"manufacturer" binding:"max=255"`
	OwnerID             uint               `json:"owner_id" binding:"required"`
	CurrentLocation     string             `json:"current_location" binding:"max=255"`
	InstallationDate    *time.Time         `json:"installation_date"`
	ExpectedLife        *int               `json:"expected_life" binding:"omitempty,min=0"`
	Specifications      datatypes.JSON     `json:"specifications"`
	LastMaintenanceDate *time.Time         `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time         `json:"next_maintenance_date"`
	MaintenanceInterval *int               `json:"maintenance_interval" binding:"omitempty,min=0"`
}

type assetPatch struct {
	Name                *string             `json:"name" binding:"omitempty,min=1,max=255"`
	Description         *string             `json:"description"`
	AssetType           *models.AssetType   `json:"asset_type" binding:"omitempty,oneof=equipment machine vehicle facility tool component other"`
	Status              *models.AssetStatus `json:"status" binding:"omitempty,oneof=operational maintenance out_of_service decommissioned quarantine"`
	SerialNumber        *string             `json:"serial_number" binding:"omitempty,max=100"`
	ModelNumber         *string             `json:"model_number" binding:"omitempty,max=100"`
	Manufacturer        *string             `json:"manufacturer" binding:"omitempty,max=255"`
	OwnerID             *uint               `json:"owner_id"`
	CurrentLocation     *string             `json:"current_location" binding:"omitempty,max=255"`
	InstallationDate    *time.Time          `json:"installation_date"`
	ExpectedLife        *int                `json:"expected_life" binding:"omitempty,min=0"`
	Specifications      datatypes.JSON      `json:"specifications"`
	LastMaintenanceDate *time.Time          `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time          `json:"next_maintenance_date"`
	MaintenanceInterval *int                `json:"maintenance_interval" binding:"omitempty,min=0"`
	IsActive            *bool               `json:"is_active"`
}

// ListAssets: admins see every asset, everyone else their own.
func (h *Handler) ListAssets(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}

	assets := repository.NewAssets(tx(c))
	var out []models.Asset
	if me(c).IsAdmin() {
		out, err = assets.List(ctx(c), p)
	} else {
		out, err = assets.ListByOwner(ctx(c), me(c).ID, p)
	}
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req assetCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	if err := policy.AuthorizeCreateFor(me(c), req.OwnerID, "create an asset"); err != nil {
		fail(c, err)
		return
	}
	if err := h.requireUser(c, req.OwnerID, "owner"); err != nil {
		fail(c, err)
		return
	}
	if req.Status == "" {
		req.Status = models.AssetOperational
	}

	asset, err := repository.NewAssets(tx(c)).CreateWithOwner(ctx(c), &models.Asset{
		Name:                req.Name,
		Description:         req.Description,
		AssetType:           req.AssetType,
		Status:              req.Status,
		SerialNumber:        req.SerialNumber,
		ModelNumber:         req.ModelNumber,
		Manufacturer:        req.Manufacturer,
		CurrentLocation:     req.CurrentLocation,
		InstallationDate:    req.InstallationDate,
		ExpectedLife:        req.ExpectedLife,
		Specifications:      req.Specifications,
		LastMaintenanceDate: req.LastMaintenanceDate,
		NextMaintenanceDate: req.NextMaintenanceDate,
		MaintenanceInterval: req.MaintenanceInterval,
		IsActive:            true,
	}, req.OwnerID, me(c).ID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.audit(c, "asset", asset.ID, "create", "created asset: "+asset.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, asset)
}

func (h *Handler) GetAsset(c *gin.Context) {
	asset, ok := load(c, "id", repository.NewAssets(tx(c)).GetWithOrders, policy.RelOwner, "access this asset")
	if !ok {
		return
	}
	respond(c, http.StatusOK, asset)
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	assets := repository.NewAssets(tx(c))
	asset, ok := load(c, "id", assets.Get, policy.RelOwner, "update this asset")
	if !ok {
		return
	}

	var patch assetPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}
	if patch.OwnerID != nil && *patch.OwnerID != asset.OwnerID {
		if err := policy.AuthorizeCreateFor(me(c), *patch.OwnerID, "assign this asset"); err != nil {
			fail(c, err)
			return
		}
		if err := h.requireUser(c, *patch.OwnerID, "owner"); err != nil {
			fail(c, err)
			return
		}
	}

	asset, err := assets.Update(ctx(c), asset, patch)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "asset", asset.ID, "update", "updated asset: "+asset.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, asset)
}

// DeleteAsset unlinks the asset's inventory, which becomes admin-only, and
// returns the asset as it was.
func (h *Handler) DeleteAsset(c *gin.Context) {
	assets := repository.NewAssets(tx(c))
	asset, ok := load(c, "id", assets.Get, policy.RelOwner, "delete this asset")
	if !ok {
		return
	}

	if err := repository.NewInventory(tx(c)).DetachAsset(ctx(c), asset.ID); err != nil {
		fail(c, err)
		return
	}
	if err := repository.NewOrders(tx(c)).DetachAsset(ctx(c), asset.ID); err != nil {
		fail(c, err)
		return
	}
	prev, err := assets.Delete(ctx(c), asset.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "asset", prev.ID, "delete", "deleted asset: "+prev.Name); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, prev)
}

func (h *Handler) ListAssetInventory(c *gin.Context) {
	asset, ok := load(c, "id", repository.NewAssets(tx(c)).Get, policy.RelOwner, "access this asset")
	if !ok {
		return
	}
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewInventory(tx(c)).ListByAsset(ctx(c), asset.ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) ListAssetDocuments(c *gin.Context) {
	asset, ok := load(c, "id", repository.NewAssets(tx(c)).Get, policy.RelOwner, "access this asset")
	if !ok {
		return
	}
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewDocuments(tx(c)).ListByAsset(ctx(c), asset.ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

// requireUser checks a referenced user exists; a dangling reference is an
// InvalidRelation, not a 404 of the request target.
func (h *Handler) requireUser(c *gin.Context, id uint, what string) error {
	_, err := h.referenced(c, id, what)
	return err
}

func (h *Handler) referenced(c *gin.Context, id uint, what string) (*models.User, error) {
	u, err := repository.NewUsers(tx(c)).Get(ctx(c), id)
	if err != nil {
		if apperr.Status(err) == http.StatusNotFound {
			return nil, apperr.InvalidRelation("the %s does not exist", what)
		}
		return nil, err
	}
	return u, nil
}
