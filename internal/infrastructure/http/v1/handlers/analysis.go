package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/core/period"
	"ledgerlens/internal/domain/analysis"
	"ledgerlens/internal/domain/narrative"
	"ledgerlens/internal/infrastructure/http/v1/dto"
	"ledgerlens/internal/infrastructure/storage/postgres"
)

// AnalysisHandler serves the financial analysis endpoint.
type AnalysisHandler struct {
	*BaseHandler
	service   *analysis.Service
	narrative *narrative.Manager
	audit     *postgres.AuditService
}

// NewAnalysisHandler creates a new analysis handler. narrative and audit
// may be nil; both are optional collaborators.
func NewAnalysisHandler(base *BaseHandler, service *analysis.Service, nm *narrative.Manager, audit *postgres.AuditService) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler: base,
		service:     service,
		narrative:   nm,
		audit:       audit,
	}
}

// Get handles GET /analysis
func (h *AnalysisHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AnalysisRequest
	if !h.BindQuery(c, &req) {
		return
	}

	kind, err := period.ParseKind(req.Period)
	if err != nil {
		h.Error(c, err)
		return
	}

	sections, unknown := analysis.ParseSections(req.Sections)
	if len(unknown) > 0 {
		h.Error(c, apperror.NewInvalidInput("unknown sections: "+strings.Join(unknown, ", ")))
		return
	}

	start := time.Now()
	result, err := h.service.Analyze(ctx, analysis.Request{
		Company:       req.Company,
		Year:          req.Year,
		PeriodKind:    kind,
		PeriodNumber:  req.PeriodNumber,
		Sections:      sections,
		ForecastYears: req.ForecastYears,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	// Attach a finished narrative when one exists; absence is never an error.
	if h.narrative != nil {
		if text, ok := h.narrative.Narrative(result.Company, result.Period); ok {
			result.Narrative = text
		}
	}

	if h.audit != nil && !result.Cached {
		h.audit.LogAnalysis(ctx,
			result.Company, result.Period, sections.Key(),
			result.Summary.HealthScore, result, time.Since(start))
	}

	c.JSON(http.StatusOK, result)
}
