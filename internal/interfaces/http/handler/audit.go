package handler

import (
	"context"

	appaudit "github.com/fintegrity/backend/internal/application/audit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditService is the application-level contract the handler invokes
type AuditService interface {
	RunAudit(ctx context.Context, req appaudit.RunAuditRequest) (*appaudit.AuditReportResponse, error)
}

// AuditHandler handles audit-run API endpoints
type AuditHandler struct {
	BaseHandler
	service AuditService
	logger  *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service AuditService, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the audit routes on the API group
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	audits := rg.Group("/audits")
	{
		audits.POST("", h.RunAudit)
	}
}

// RunAudit executes the requested checks against one accounting period and
// returns the assembled report. The run is synchronous; reports are not
// stored server-side.
func (h *AuditHandler) RunAudit(c *gin.Context) {
	var req appaudit.RunAuditRequest
	if !h.BindJSON(c, &req) {
		return
	}

	report, err := h.service.RunAudit(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("audit run rejected",
			zap.String("company_id", req.CompanyID.String()),
			zap.String("period_id", req.PeriodID.String()),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
