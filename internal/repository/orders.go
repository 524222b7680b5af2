package repository

import (
	"context"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"

	"gorm.io/gorm"
)

type Orders struct {
	*Repository[models.ServiceOrder]
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{New[models.ServiceOrder](db, "service order", "client_id")}
}

func (r *Orders) ListByProvider(ctx context.Context, providerID uint, page Page) ([]models.ServiceOrder, error) {
	return r.ListBy(ctx, "provider_id", providerID, page)
}

// CreateWithClient stores a new order. New orders always start as drafts
// without a provider.
func (r *Orders) CreateWithClient(ctx context.Context, in *models.ServiceOrder, clientID, createdBy uint) (*models.ServiceOrder, error) {
	return r.Create(ctx, in, func(o *models.ServiceOrder) {
		o.ID = 0
		o.ClientID = clientID
		o.CreatedBy = createdBy
		o.ProviderID = nil
		o.Status = models.OrderDraft
	})
}

// Assign sets the provider and moves the order to assigned in one statement.
func (r *Orders) Assign(ctx context.Context, order *models.ServiceOrder, providerID uint) (*models.ServiceOrder, error) {
	return r.UpdateColumns(ctx, order, map[string]any{
		"provider_id": providerID,
		"status":      models.OrderAssigned,
	})
}

// GetWithChecklist loads the order together with its checklist items.
func (r *Orders) GetWithChecklist(ctx context.Context, id uint) (*models.ServiceOrder, error) {
	var out models.ServiceOrder
	err := r.conn(ctx).
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&out, id).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &out, nil
}

// Delete removes the order and its checklist. Documents, payments and
// invoices stay but lose the order link.
func (r *Orders) Delete(ctx context.Context, id uint) (*models.ServiceOrder, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	err := r.conn(ctx).Where("service_order_id = ?", id).Delete(&models.ChecklistItem{}).Error
	if err != nil {
		return nil, apperr.Internal(err, "deleting checklist of order %d", id)
	}
	for _, m := range []any{&models.Document{}, &models.Payment{}, &models.Invoice{}} {
		err := r.conn(ctx).Model(m).
			Where("service_order_id = ?", id).
			Update("service_order_id", nil).Error
		if err != nil {
			return nil, apperr.Internal(err, "detaching %T from order %d", m, id)
		}
	}
	return r.Repository.Delete(ctx, id)
}

// DetachAsset clears the asset of every order raised against assetID.
func (r *Orders) DetachAsset(ctx context.Context, assetID uint) error {
	err := r.conn(ctx).Model(&models.ServiceOrder{}).
		Where("asset_id = ?", assetID).
		Update("asset_id", nil).Error
	if err != nil {
		return apperr.Internal(err, "detaching orders of asset %d", assetID)
	}
	return nil
}

type Checklist struct {
	*Repository[models.ChecklistItem]
}

func NewChecklist(db *gorm.DB) *Checklist {
	return &Checklist{New[models.ChecklistItem](db, "checklist item", "")}
}

func (r *Checklist) ListByOrder(ctx context.Context, orderID uint, page Page) ([]models.ChecklistItem, error) {
	return r.ListBy(ctx, "service_order_id", orderID, page)
}

func (r *Checklist) CreateWithOrder(ctx context.Context, in *models.ChecklistItem, orderID uint) (*models.ChecklistItem, error) {
	return r.Create(ctx, in, func(ci *models.ChecklistItem) {
		ci.ID = 0
		ci.ServiceOrderID = orderID
		ci.CompletedBy = nil
		ci.CompletedAt = nil
		ci.IsCompleted = false
	})
}

// SetCompletion marks the item done by userID at at, or clears the stamp.
func (r *Checklist) SetCompletion(ctx context.Context, item *models.ChecklistItem, completed bool, userID uint, at time.Time) (*models.ChecklistItem, error) {
	changes := map[string]any{
		"is_completed": completed,
		"completed_by": nil,
		"completed_at": nil,
	}
	if completed {
		if item.IsCompleted && item.CompletedBy != nil {
			// already done, keep the original stamp
			delete(changes, "completed_by")
			delete(changes, "completed_at")
		} else {
			changes["completed_by"] = userID
			changes["completed_at"] = at
		}
	}
	return r.UpdateColumns(ctx, item, changes)
}
