// Package policy decides whether a user may act on a record. Every decision
// is made from the record's ownership: admins pass, direct holders pass, and
// records without owner columns are judged by their parent.
package policy

import (
	"context"
	"errors"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
)

// Relation is the link the actor must hold to the record.
type Relation string

const (
	// RelOwner: owner (asset owner, order client, notification recipient).
	RelOwner Relation = "owner"
	// RelAssignee: owner or assigned provider.
	RelAssignee Relation = "assignee"
	// RelCreator: owner or creator.
	RelCreator Relation = "creator"
	// RelViewer: any of the above.
	RelViewer Relation = "viewer"
)

// maxDepth bounds parent traversal; the schema nests at most two levels.
const maxDepth = 4

// ParentLoader resolves an ownership reference to its record.
type ParentLoader interface {
	LoadParent(ctx context.Context, ref models.ParentRef) (models.Owned, error)
}

type Policy struct {
	parents ParentLoader
}

func New(parents ParentLoader) *Policy {
	return &Policy{parents: parents}
}

// CanAccess never mutates anything. A missing parent makes the record
// admin-only rather than an error.
func (p *Policy) CanAccess(ctx context.Context, actor *models.User, res models.Owned, rel Relation) (bool, error) {
	if actor == nil || res == nil {
		return false, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}
	return p.check(ctx, actor.ID, res, rel, 0)
}

func (p *Policy) check(ctx context.Context, actorID uint, res models.Owned, rel Relation, depth int) (bool, error) {
	own := res.Ownership()
	if !own.Derived() {
		return holds(own, actorID, rel), nil
	}
	if own.Parent == nil || depth >= maxDepth || p.parents == nil {
		return false, nil
	}

	parent, err := p.parents.LoadParent(ctx, *own.Parent)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.check(ctx, actorID, parent, rel, depth+1)
}

func holds(own models.Ownership, actorID uint, rel Relation) bool {
	is := func(id *uint) bool { return id != nil && *id == actorID }

	switch rel {
	case RelOwner:
		return is(own.OwnerID)
	case RelAssignee:
		return is(own.OwnerID) || is(own.AssigneeID)
	case RelCreator:
		return is(own.OwnerID) || is(own.CreatorID)
	case RelViewer:
		return is(own.OwnerID) || is(own.AssigneeID) || is(own.CreatorID)
	}
	return false
}

// Authorize is CanAccess reporting a denial as a Forbidden error. what names
// the record in the message, e.g. "access this asset".
func (p *Policy) Authorize(ctx context.Context, actor *models.User, res models.Owned, rel Relation, what string) error {
	ok, err := p.CanAccess(ctx, actor, res, rel)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("not enough permissions to %s", what)
	}
	return nil
}

// CanCreateFor reports whether actor may create a record owned by ownerID.
// Only admins create on behalf of someone else.
func CanCreateFor(actor *models.User, ownerID uint) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == ownerID
}

func AuthorizeCreateFor(actor *models.User, ownerID uint, what string) error {
	if !CanCreateFor(actor, ownerID) {
		return apperr.Forbidden("not enough permissions to %s for another user", what)
	}
	return nil
}
