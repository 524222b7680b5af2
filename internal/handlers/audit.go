package handlers

import (
	"net/http"

	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAudit shows the newest audit entries first. Admin only.
func (h *Handler) ListAudit(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	logs, err := repository.NewAudit(tx(c)).Recent(ctx(c), p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, logs)
}
