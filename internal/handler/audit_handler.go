package handler

import (
	"net/http"

	"clinic-billing-backend/internal/repository"
	"clinic-billing-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditRepo *repository.AuditRepository
}

func NewAuditHandler(auditRepo *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
	}
}

// ListAuditLogs returns the most recent audit entries (admin only)
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	entries, err := h.auditRepo.ListRecent(100)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}
