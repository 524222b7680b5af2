package handlers

import (
	"fmt"
	"net/http"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

type orderCreate struct {
	Title            string               `json:"title" binding:"required,max=255"`
	Description      string               `json:"description" binding:"required"`
	Priority         models.OrderPriority `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	ClientID         *uint                `json:"client_id"`
	AssetID          *uint                `json:"asset_id"`
	ScheduledStart   *time.Time           `json:"scheduled_start"`
	ScheduledEnd     *time.Time           `json:"scheduled_end"`
	EstimatedCost    *float64             `json:"estimated_cost" binding:"omitempty,min=0"`
	TaxAmount        float64              `json:"tax_amount" binding:"min=0"`
	DiscountAmount   float64              `json:"discount_amount" binding:"min=0"`
	Location         string               `json:"location" binding:"max=255"`
	LocationDetails  string               `json:"location_details"`
	IsUrgent         bool                 `json:"is_urgent"`
	RequiresApproval bool                 `json:"requires_approval"`
}

type orderPatch struct {
	Title            *string               `json:"title" binding:"omitempty,min=1,max=255"`
	Description      *string               `json:"description" binding:"omitempty,min=1"`
	Status           *models.OrderStatus   `json:"status"`
	Priority         *models.OrderPriority `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	AssetID          *uint                 `json:"asset_id"`
	ScheduledStart   *time.Time            `json:"scheduled_start"`
	ScheduledEnd     *time.Time            `json:"scheduled_end"`
	ActualStart      *time.Time            `json:"actual_start"`
	ActualEnd        *time.Time            `json:"actual_end"`
	EstimatedCost    *float64              `json:"estimated_cost" binding:"omitempty,min=0"`
	ActualCost       *float64              `json:"actual_cost" binding:"omitempty,min=0"`
	TaxAmount        *float64              `json:"tax_amount" binding:"omitempty,min=0"`
	DiscountAmount   *float64              `json:"discount_amount" binding:"omitempty,min=0"`
	TotalAmount      *float64              `json:"total_amount" binding:"omitempty,min=0"`
	Location         *string               `json:"location" binding:"omitempty,max=255"`
	LocationDetails  *string               `json:"location_details"`
	IsUrgent         *bool                 `json:"is_urgent"`
	RequiresApproval *bool                 `json:"requires_approval"`
	IsApproved       *bool                 `json:"is_approved"`
	ApprovalNotes    *string               `json:"approval_notes"`
}

// ListOrders: clients see the orders they placed, providers the orders
// assigned to them, admins everything. Operators are treated as clients.
func (h *Handler) ListOrders(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}

	orders := repository.NewOrders(tx(c))
	user := me(c)
	var out []models.ServiceOrder
	switch user.Role {
	case models.RoleAdmin:
		out, err = orders.List(ctx(c), p)
	case models.RoleProvider:
		out, err = orders.ListByProvider(ctx(c), user.ID, p)
	default:
		out, err = orders.ListByOwner(ctx(c), user.ID, p)
	}
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

// CreateOrder is open to clients, and to admins acting for a client.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req orderCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	user := me(c)
	clientID := user.ID
	if req.ClientID != nil {
		clientID = *req.ClientID
	}
	if err := policy.AuthorizeCreateFor(user, clientID, "create a service order"); err != nil {
		fail(c, err)
		return
	}
	if clientID != user.ID {
		client, err := h.referenced(c, clientID, "client")
		if err != nil {
			fail(c, err)
			return
		}
		if client.Role != models.RoleClient {
			fail(c, apperr.InvalidRelation("the specified user is not a client"))
			return
		}
	}
	if req.AssetID != nil {
		if err := h.checkOrderAsset(c, *req.AssetID, clientID); err != nil {
			fail(c, err)
			return
		}
	}
	if req.ScheduledStart != nil && req.ScheduledEnd != nil && req.ScheduledEnd.Before(*req.ScheduledStart) {
		fail(c, apperr.Validation("scheduled_end is before scheduled_start"))
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	order, err := repository.NewOrders(tx(c)).CreateWithClient(ctx(c), &models.ServiceOrder{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		AssetID:          req.AssetID,
		ScheduledStart:   req.ScheduledStart,
		ScheduledEnd:     req.ScheduledEnd,
		EstimatedCost:    req.EstimatedCost,
		TaxAmount:        req.TaxAmount,
		DiscountAmount:   req.DiscountAmount,
		Location:         req.Location,
		LocationDetails:  req.LocationDetails,
		IsUrgent:         req.IsUrgent,
		RequiresApproval: req.RequiresApproval,
	}, clientID, user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.audit(c, "service_order", order.ID, "create", "created service order: "+order.Title); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, order)
}

// GetOrder returns the order with its checklist.
func (h *Handler) GetOrder(c *gin.Context) {
	order, ok := load(c, "id", repository.NewOrders(tx(c)).GetWithChecklist, policy.RelAssignee, "access this service order")
	if !ok {
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	orders := repository.NewOrders(tx(c))
	order, ok := load(c, "id", orders.Get, policy.RelAssignee, "update this service order")
	if !ok {
		return
	}

	var patch orderPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}
	if patch.IsApproved != nil && !me(c).IsAdmin() {
		fail(c, apperr.Forbidden("only admins can approve service orders"))
		return
	}
	if patch.Status != nil {
		if err := h.Transitions.Check(order.Status, *patch.Status); err != nil {
			fail(c, err)
			return
		}
		if h.Transitions.Mode() == policy.Strict && *patch.Status == models.OrderAssigned && order.ProviderID == nil {
			fail(c, apperr.Validation("assign a provider to move the order to assigned"))
			return
		}
	}
	if patch.AssetID != nil && (order.AssetID == nil || *order.AssetID != *patch.AssetID) {
		if err := h.checkOrderAsset(c, *patch.AssetID, order.ClientID); err != nil {
			fail(c, err)
			return
		}
	}

	from := order.Status
	order, err := orders.Update(ctx(c), order, patch)
	if err != nil {
		fail(c, err)
		return
	}

	details := "updated service order: " + order.Title
	if from != order.Status {
		details = fmt.Sprintf("status %s -> %s", from, order.Status)
	}
	if err := h.audit(c, "service_order", order.ID, "update", details); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	orders := repository.NewOrders(tx(c))
	order, ok := load(c, "id", orders.Get, policy.RelAssignee, "delete this service order")
	if !ok {
		return
	}
	prev, err := orders.Delete(ctx(c), order.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "service_order", prev.ID, "delete", "deleted service order: "+prev.Title); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, prev)
}

// AssignOrder hands the order to a provider. Only the client or an admin may
// do it and the target must have the provider role; on any failure nothing
// changes.
func (h *Handler) AssignOrder(c *gin.Context) {
	orders := repository.NewOrders(tx(c))
	order, ok := load(c, "id", orders.Get, policy.RelOwner, "assign this service order")
	if !ok {
		return
	}

	providerID, err := idParam(c, "provider_id")
	if err != nil {
		fail(c, err)
		return
	}
	provider, err := repository.NewUsers(tx(c)).Get(ctx(c), providerID)
	if err != nil && apperr.Status(err) != http.StatusNotFound {
		fail(c, err)
		return
	}
	if provider == nil || provider.Role != models.RoleProvider || !provider.IsActive {
		fail(c, apperr.InvalidRelation("the specified user is not a valid provider"))
		return
	}
	if err := h.Transitions.CheckAssign(order.Status); err != nil {
		fail(c, err)
		return
	}

	order, err = orders.Assign(ctx(c), order, provider.ID)
	if err != nil {
		fail(c, err)
		return
	}

	_, err = repository.NewNotifications(tx(c)).Notify(ctx(c), provider.ID,
		"New service order assigned",
		fmt.Sprintf("You were assigned to service order #%d: %s", order.ID, order.Title),
		"service_order", order.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "service_order", order.ID, "assign", fmt.Sprintf("assigned provider %d", provider.ID)); err != nil {
		fail(c, err)
		return
	}

	h.Log.WithField("order_id", order.ID).WithField("provider_id", provider.ID).Info("service order assigned")
	respond(c, http.StatusOK, order)
}

// checkOrderAsset: an order may only reference an asset owned by its client.
func (h *Handler) checkOrderAsset(c *gin.Context, assetID, clientID uint) error {
	asset, err := repository.NewAssets(tx(c)).Get(ctx(c), assetID)
	if err != nil {
		if apperr.Status(err) == http.StatusNotFound {
			return apperr.InvalidRelation("the asset does not exist")
		}
		return err
	}
	if asset.OwnerID != clientID && !me(c).IsAdmin() {
		return apperr.Forbidden("not enough permissions to use this asset")
	}
	return nil
}

func (h *Handler) ListOrderDocuments(c *gin.Context) {
	order, ok := load(c, "id", repository.NewOrders(tx(c)).Get, policy.RelAssignee, "access this service order")
	if !ok {
		return
	}
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewDocuments(tx(c)).ListByOrder(ctx(c), order.ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) ListOrderPayments(c *gin.Context) {
	order, ok := load(c, "id", repository.NewOrders(tx(c)).Get, policy.RelAssignee, "access this service order")
	if !ok {
		return
	}
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewPayments(tx(c)).ListByOrder(ctx(c), order.ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) ListOrderInvoices(c *gin.Context) {
	order, ok := load(c, "id", repository.NewOrders(tx(c)).Get, policy.RelAssignee, "access this service order")
	if !ok {
		return
	}
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewInvoices(tx(c)).ListByOrder(ctx(c), order.ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}
