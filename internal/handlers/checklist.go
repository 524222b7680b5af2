package handlers

import (
	"net/http"

	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

type checklistCreate struct {
	Description string `json:"description" binding:"required,max=500"`
	IsRequired  *bool  `json:"is_required"`
	Notes       string `json:"notes"`
}

type checklistPatch struct {
	Description *string `json:"description" binding:"omitempty,min=1,max=500"`
	IsRequired  *bool   `json:"is_required"`
	Notes       *string `json:"notes"`
	// handled by SetCompletion, which also stamps who and when
	IsCompleted *bool `json:"is_completed" gorm:"-"`
}

func (h *Handler) ListChecklist(c *gin.Context) {
	order, ok := load(c, "id", repository.NewOrders(tx(c)).Get, policy.RelAssignee, "access this service order")
	if !ok {
		return
	}
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewChecklist(tx(c)).ListByOrder(ctx(c), order.ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) CreateChecklistItem(c *gin.Context) {
	order, ok := load(c, "id", repository.NewOrders(tx(c)).Get, policy.RelAssignee, "add checklist items to this service order")
	if !ok {
		return
	}

	var req checklistCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	required := true
	if req.IsRequired != nil {
		required = *req.IsRequired
	}

	item, err := repository.NewChecklist(tx(c)).CreateWithOrder(ctx(c), &models.ChecklistItem{
		Description: req.Description,
		IsRequired:  required,
		Notes:       req.Notes,
	}, order.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "checklist_item", item.ID, "create", req.Description); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

// UpdateChecklistItem does not look at the order status: an order can be
// completed with open items and items can be ticked on a completed order.
func (h *Handler) UpdateChecklistItem(c *gin.Context) {
	checklist := repository.NewChecklist(tx(c))
	item, ok := load(c, "id", checklist.Get, policy.RelAssignee, "update this checklist item")
	if !ok {
		return
	}

	var patch checklistPatch
	if err := bind(c, &patch); err != nil {
		fail(c, err)
		return
	}

	item, err := checklist.Update(ctx(c), item, patch)
	if err != nil {
		fail(c, err)
		return
	}
	if patch.IsCompleted != nil {
		item, err = checklist.SetCompletion(ctx(c), item, *patch.IsCompleted, me(c).ID, h.now())
		if err != nil {
			fail(c, err)
			return
		}
	}

	action := "update"
	if patch.IsCompleted != nil && *patch.IsCompleted {
		action = "complete"
	}
	if err := h.audit(c, "checklist_item", item.ID, action, item.Description); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *Handler) DeleteChecklistItem(c *gin.Context) {
	checklist := repository.NewChecklist(tx(c))
	item, ok := load(c, "id", checklist.Get, policy.RelAssignee, "delete this checklist item")
	if !ok {
		return
	}
	prev, err := checklist.Delete(ctx(c), item.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "checklist_item", prev.ID, "delete", prev.Description); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, prev)
}
