package models

// Ownership describes who holds a direct relation to a record. Records that
// carry no owner columns of their own point at their parent instead, and
// access is decided by the parent.
type Ownership struct {
	OwnerID    *uint
	AssigneeID *uint
	CreatorID  *uint

	Parent *ParentRef
}

// Derived reports whether access must be resolved through a parent record.
func (o Ownership) Derived() bool {
	return o.OwnerID == nil && o.AssigneeID == nil && o.CreatorID == nil
}

type ParentKind string

const (
	ParentAsset        ParentKind = "asset"
	ParentServiceOrder ParentKind = "service_order"
	ParentUser         ParentKind = "user"
)

type ParentRef struct {
	Kind ParentKind
	ID   uint
}

// Owned is implemented by every entity the access policy can evaluate.
type Owned interface {
	Ownership() Ownership
}

func parent(kind ParentKind, id *uint) *ParentRef {
	if id == nil || *id == 0 {
		return nil
	}
	return &ParentRef{Kind: kind, ID: *id}
}
