package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/domain/ledger"
	"ledgerlens/internal/infrastructure/export"
	"ledgerlens/internal/infrastructure/http/v1/dto"
)

// LedgerHandler serves running-balance statements.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, service: service}
}

// GetStatement handles GET /ledger/statement
func (h *LedgerHandler) GetStatement(c *gin.Context) {
	stmt, ok := h.statement(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// ExportStatement handles GET /ledger/statement/export
// Streams the statement as an XLSX attachment.
func (h *LedgerHandler) ExportStatement(c *gin.Context) {
	stmt, ok := h.statement(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("statement_%s_%s.xlsx",
		stmt.Company, stmt.ToDate.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := export.WriteStatementXLSX(stmt, c.Writer); err != nil {
		h.Error(c, err)
	}
}

func (h *LedgerHandler) statement(c *gin.Context) (*ledger.Statement, bool) {
	var req dto.LedgerEntriesRequest
	if !h.BindQuery(c, &req) {
		return nil, false
	}

	from, ok := h.ParseDate(c, "from_date", req.FromDate)
	if !ok {
		return nil, false
	}
	to, ok := h.ParseDate(c, "to_date", req.ToDate)
	if !ok {
		return nil, false
	}

	stmt, err := h.service.Statement(c.Request.Context(), ledger.Filter{
		Company:    req.Company,
		FromDate:   from,
		ToDate:     to,
		Account:    req.Account,
		PartyType:  req.PartyType,
		Party:      req.Party,
		CostCenter: req.CostCenter,
		Project:    req.Project,
	})
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return stmt, true
}
