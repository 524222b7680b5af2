package handlers

import (
	"net/http"
	"strings"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers is admin-only; ?role= narrows the listing.
func (h *Handler) ListUsers(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}

	users := repository.NewUsers(tx(c))
	var out []models.User
	if role := models.UserRole(c.Query("role")); role != "" {
		if !role.Valid() {
			fail(c, apperr.Validation("invalid role %q", role))
			return
		}
		out, err = users.ListByRole(ctx(c), role, p)
	} else {
		out, err = users.List(ctx(c), p)
	}
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

// ListProviders lets clients find someone to assign an order to.
func (h *Handler) ListProviders(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewUsers(tx(c)).ListActiveByRole(ctx(c), models.RoleProvider, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, user)
}

type userPatch struct {
	Email              *string          `json:"email" binding:"omitempty,email,max=255"`
	FullName           *string          `json:"full_name" binding:"omitempty,max=255"`
	CompanyName        *string          `json:"company_name" binding:"omitempty,max=255"`
	TaxID              *string          `json:"tax_id" binding:"omitempty,max=32"`
	Phone              *string          `json:"phone" binding:"omitempty,max=50"`
	ProviderType       *string          `json:"provider_type" binding:"omitempty,max=100"`
	ServiceAreas       *string          `json:"service_areas" binding:"omitempty,max=255"`
	CertificationLevel *string          `json:"certification_level" binding:"omitempty,max=100"`
	Role               *models.UserRole `json:"role" binding:"omitempty,oneof=client provider admin operator"`
	IsActive           *bool            `json:"is_active"`
	IsVerified         *bool            `json:"is_verified"`
}

func (h *Handler) UpdateUser(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var patch userPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}
	if !me(c).IsAdmin() && (patch.Role != nil || patch.IsActive != nil || patch.IsVerified != nil) {
		fail(c, apperr.Forbidden("only admins can change role or account status"))
		return
	}

	users := repository.NewUsers(tx(c))
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &email
		if email != user.Email {
			taken, err := users.EmailTaken(ctx(c), email)
			if err != nil {
				fail(c, err)
				return
			}
			if taken {
				fail(c, apperr.InvalidRelation("a user with this email already exists"))
				return
			}
		}
	}

	user, err := users.Update(ctx(c), user, patch)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "user", user.ID, "update", user.Email); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// loadUser fetches :id and checks the caller is that user or an admin.
func (h *Handler) loadUser(c *gin.Context) (*models.User, bool) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return nil, false
	}
	user, err := repository.NewUsers(tx(c)).Get(ctx(c), id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if err := access(c).Authorize(ctx(c), me(c), user, policy.RelOwner, "access this user"); err != nil {
		fail(c, err)
		return nil, false
	}
	return user, true
}
