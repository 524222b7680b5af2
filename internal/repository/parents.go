package repository

import (
	"context"
	"fmt"

	"maintenance-hub/internal/models"

	"gorm.io/gorm"
)

// Parents loads the parent record an ownership reference points at.
type Parents struct {
	db *gorm.DB
}

func NewParents(db *gorm.DB) *Parents {
	return &Parents{db: db}
}

func (p *Parents) LoadParent(ctx context.Context, ref models.ParentRef) (models.Owned, error) {
	switch ref.Kind {
	case models.ParentAsset:
		a, err := NewAssets(p.db).Get(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return a, nil
	case models.ParentServiceOrder:
		o, err := NewOrders(p.db).Get(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return o, nil
	case models.ParentUser:
		u, err := NewUsers(p.db).Get(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	return nil, fmt.Errorf("unknown parent kind %q", ref.Kind)
}
