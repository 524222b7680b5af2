package policy

import (
	"context"
	"errors"
	"testing"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParents struct {
	records map[models.ParentRef]models.Owned
	loads   int
	err     error
}

func (f *fakeParents) LoadParent(_ context.Context, ref models.ParentRef) (models.Owned, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[ref]
	if !ok {
		return nil, apperr.NotFound("the %s does not exist", ref.Kind)
	}
	return rec, nil
}

func uptr(v uint) *uint { return &v }

var (
	admin    = &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	owner    = &models.User{ID: 2, Role: models.RoleClient, IsActive: true}
	provider = &models.User{ID: 3, Role: models.RoleProvider, IsActive: true}
	stranger = &models.User{ID: 4, Role: models.RoleClient, IsActive: true}
	operator = &models.User{ID: 5, Role: models.RoleOperator, IsActive: true}
)

func fixture() (*Policy, *fakeParents) {
	asset := &models.Asset{ID: 10, OwnerID: owner.ID, CreatedBy: admin.ID}
	order := &models.ServiceOrder{ID: 20, ClientID: owner.ID, ProviderID: uptr(provider.ID), CreatedBy: owner.ID}
	parents := &fakeParents{records: map[models.ParentRef]models.Owned{
		{Kind: models.ParentAsset, ID: 10}:        asset,
		{Kind: models.ParentServiceOrder, ID: 20}: order,
	}}
	return New(parents), parents
}

func TestAdminAlwaysAllowed(t *testing.T) {
	p, parents := fixture()
	ctx := context.Background()

	resources := []models.Owned{
		models.Asset{ID: 99, OwnerID: stranger.ID, CreatedBy: stranger.ID},
		models.ServiceOrder{ID: 98, ClientID: stranger.ID},
		models.InventoryItem{ID: 97},
		models.ChecklistItem{ID: 96, ServiceOrderID: 12345},
	}
	for _, res := range resources {
		for _, rel := range []Relation{RelOwner, RelAssignee, RelCreator, RelViewer} {
			ok, err := p.CanAccess(ctx, admin, res, rel)
			require.NoError(t, err)
			assert.True(t, ok, "%T %s", res, rel)
		}
	}
	assert.Zero(t, parents.loads, "admins never need a parent lookup")
}

func TestDirectOwnership(t *testing.T) {
	p, _ := fixture()
	ctx := context.Background()
	asset := models.Asset{ID: 10, OwnerID: owner.ID, CreatedBy: admin.ID}

	ok, err := p.CanAccess(ctx, owner, asset, RelOwner)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, u := range []*models.User{stranger, provider, operator} {
		ok, err := p.CanAccess(ctx, u, asset, RelOwner)
		require.NoError(t, err)
		assert.False(t, ok, "user %d", u.ID)
	}
}

func TestProviderIsAssigneeNotOwner(t *testing.T) {
	p, _ := fixture()
	ctx := context.Background()
	order := models.ServiceOrder{ID: 20, ClientID: owner.ID, ProviderID: uptr(provider.ID), CreatedBy: owner.ID}

	ok, err := p.CanAccess(ctx, provider, order, RelAssignee)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.CanAccess(ctx, provider, order, RelOwner)
	require.NoError(t, err)
	assert.False(t, ok, "assigning a provider is reserved to the client")

	ok, err = p.CanAccess(ctx, stranger, order, RelViewer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnassignedOrderHasNoAssignee(t *testing.T) {
	p, _ := fixture()
	order := models.ServiceOrder{ID: 21, ClientID: owner.ID, CreatedBy: owner.ID}

	ok, err := p.CanAccess(context.Background(), provider, order, RelAssignee)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreatorRelation(t *testing.T) {
	p, _ := fixture()
	asset := models.Asset{ID: 11, OwnerID: owner.ID, CreatedBy: operator.ID}

	ok, err := p.CanAccess(context.Background(), operator, asset, RelCreator)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.CanAccess(context.Background(), operator, asset, RelOwner)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDerivedOwnershipThroughAsset(t *testing.T) {
	p, parents := fixture()
	ctx := context.Background()
	item := models.InventoryItem{ID: 30, AssetID: uptr(10)}

	ok, err := p.CanAccess(ctx, owner, item, RelOwner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, parents.loads)

	ok, err = p.CanAccess(ctx, stranger, item, RelOwner)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDerivedOwnershipThroughOrder(t *testing.T) {
	p, _ := fixture()
	ctx := context.Background()
	item := models.ChecklistItem{ID: 40, ServiceOrderID: 20}

	for _, u := range []*models.User{owner, provider} {
		ok, err := p.CanAccess(ctx, u, item, RelAssignee)
		require.NoError(t, err)
		assert.True(t, ok, "user %d", u.ID)
	}
	ok, err := p.CanAccess(ctx, stranger, item, RelAssignee)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDocumentPrefersOrderOverAsset(t *testing.T) {
	p, _ := fixture()
	ctx := context.Background()

	onOrder := models.Document{ID: 50, ServiceOrderID: uptr(20), AssetID: uptr(10)}
	ok, err := p.CanAccess(ctx, provider, onOrder, RelAssignee)
	require.NoError(t, err)
	assert.True(t, ok)

	onAsset := models.Document{ID: 51, AssetID: uptr(10)}
	ok, err = p.CanAccess(ctx, provider, onAsset, RelAssignee)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = p.CanAccess(ctx, owner, onAsset, RelAssignee)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOrphanIsAdminOnly(t *testing.T) {
	p, parents := fixture()
	ctx := context.Background()

	ok, err := p.CanAccess(ctx, owner, models.InventoryItem{ID: 31}, RelViewer)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, parents.loads)

	ok, err = p.CanAccess(ctx, admin, models.InventoryItem{ID: 31}, RelViewer)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDanglingParentIsAdminOnly(t *testing.T) {
	p, _ := fixture()

	ok, err := p.CanAccess(context.Background(), owner, models.Payment{ID: 60, ServiceOrderID: uptr(777)}, RelViewer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParentLoadFailurePropagates(t *testing.T) {
	p, parents := fixture()
	boom := errors.New("connection refused")
	parents.err = boom

	_, err := p.CanAccess(context.Background(), owner, models.InventoryItem{ID: 30, AssetID: uptr(10)}, RelOwner)
	assert.ErrorIs(t, err, boom)
}

func TestAuthorize(t *testing.T) {
	p, _ := fixture()
	asset := models.Asset{ID: 10, OwnerID: owner.ID}

	assert.NoError(t, p.Authorize(context.Background(), owner, asset, RelOwner, "access this asset"))

	err := p.Authorize(context.Background(), stranger, asset, RelOwner, "access this asset")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, "not enough permissions to access this asset", apperr.Detail(err))
}

func TestNilActorDenied(t *testing.T) {
	p, _ := fixture()
	ok, err := p.CanAccess(context.Background(), nil, models.Asset{ID: 1}, RelViewer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanCreateFor(t *testing.T) {
	assert.True(t, CanCreateFor(owner, owner.ID))
	assert.False(t, CanCreateFor(owner, stranger.ID))
	assert.True(t, CanCreateFor(admin, stranger.ID))
	assert.False(t, CanCreateFor(nil, 1))

	err := AuthorizeCreateFor(operator, owner.ID, "create an asset")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
