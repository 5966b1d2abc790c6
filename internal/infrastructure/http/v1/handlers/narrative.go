package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/core/period"
	"ledgerlens/internal/domain/analysis"
	"ledgerlens/internal/domain/narrative"
	"ledgerlens/internal/infrastructure/http/v1/dto"
)

// NarrativeHandler manages AI narrative jobs.
type NarrativeHandler struct {
	*BaseHandler
	analysis *analysis.Service
	manager  *narrative.Manager
}

// NewNarrativeHandler creates a new narrative handler.
func NewNarrativeHandler(base *BaseHandler, svc *analysis.Service, manager *narrative.Manager) *NarrativeHandler {
	return &NarrativeHandler{BaseHandler: base, analysis: svc, manager: manager}
}

// Submit handles POST /analysis/narrative
// Computes the digest synchronously, then queues generation. Returns 202
// with the job ID for polling.
func (h *NarrativeHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.manager.Available() {
		h.Error(c, apperror.NewExternalService("narrative provider", nil).
			WithDetail("hint", "configure an AI provider API key"))
		return
	}

	var req dto.NarrativeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	kind, err := period.ParseKind(req.Period)
	if err != nil {
		h.Error(c, err)
		return
	}

	sections, _ := analysis.ParseSections([]string{string(analysis.SectionAI), string(analysis.SectionEquity)})
	result, err := h.analysis.Analyze(ctx, analysis.Request{
		Company:      req.Company,
		Year:         req.Year,
		PeriodKind:   kind,
		PeriodNumber: req.PeriodNumber,
		Sections:     sections,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	jobID, err := h.manager.Submit(ctx, result)
	if err != nil {
		h.Error(c, err)
		return
	}

	job, _ := h.manager.Status(jobID)
	c.JSON(http.StatusAccepted, dto.NarrativeSubmitResponse{
		JobID:  jobID,
		Status: string(job.Status),
	})
}

// Status handles GET /analysis/narrative/:id
func (h *NarrativeHandler) Status(c *gin.Context) {
	if !h.manager.Available() {
		h.Error(c, apperror.NewNotFound("narrative job", c.Param("id")))
		return
	}
	job, ok := h.manager.Status(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewNotFound("narrative job", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, job)
}
