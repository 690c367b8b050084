package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/dto"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for the aggregated financial reports
// of the authenticated user.
type reportingHandler struct {
	reportService portssvc.FinanceReportSvc
	now           func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.FinanceReportSvc) *reportingHandler {
	return &reportingHandler{
		reportService: rs,
		now:           time.Now,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportService portssvc.FinanceReportSvc) {
	h := newReportingHandler(reportService)

	reports := rg.Group("/reports")
	{
		reports.GET("/net-worth", h.getNetWorth)
		reports.GET("/cash-flow", h.getCashFlow)
		reports.GET("/health-score", h.getHealthScore)
		reports.GET("/recurring-summary", h.getRecurringSummary)
		reports.GET("/installments", h.getInstallmentOverview)
	}
}

// requestScope extracts the user ID and the asOf date shared by point-in-time
// reports. It writes the error response itself and returns ok=false on failure.
func (h *reportingHandler) requestScope(c *gin.Context, logger *slog.Logger) (string, time.Time, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", time.Time{}, false
	}

	var query dto.AsOfQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return "", time.Time{}, false
	}
	asOf, err := dto.ParseDate(query.AsOf, h.now().UTC())
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", query.AsOf))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return "", time.Time{}, false
	}
	return userID, asOf, true
}

// getNetWorth godoc
// @Summary Net worth
// @Description Portfolio plus savings minus remaining installment balances, in the user's display currency
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.NetWorthReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/net-worth [get]
func (h *reportingHandler) getNetWorth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, asOf, ok := h.requestScope(c, logger)
	if !ok {
		return
	}

	report, err := h.reportService.NetWorthForUser(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate net worth report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCashFlow godoc
// @Summary Cash flow
// @Description Monthly-equivalent income, expenses, subscriptions, installments and taxes for a period
// @Tags reports
// @Produce json
// @Param fromDate query string true "Period start (YYYY-MM-DD)"
// @Param toDate query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlowReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var query dto.CashFlowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind cash flow query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate and toDate are required"})
		return
	}
	from, to, err := query.Period()
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate cash flow report")
		return
	}

	report, err := h.reportService.CashFlowForUser(c.Request.Context(), userID, from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate cash flow report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getHealthScore godoc
// @Summary Financial health score
// @Description Five sub-scores of up to 20 points each, computed over the calendar month of asOf
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.HealthScoreReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/health-score [get]
func (h *reportingHandler) getHealthScore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, asOf, ok := h.requestScope(c, logger)
	if !ok {
		return
	}

	report, err := h.reportService.HealthScoreForUser(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate health score")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getRecurringSummary godoc
// @Summary Recurring summary
// @Description Monthly and annual totals of the recurring flows live on asOf
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.RecurringSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/recurring-summary [get]
func (h *reportingHandler) getRecurringSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, asOf, ok := h.requestScope(c, logger)
	if !ok {
		return
	}

	summary, err := h.reportService.RecurringSummaryForUser(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate recurring summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getInstallmentOverview godoc
// @Summary Installment overview
// @Description Every installment schedule with its payments made, remaining balance and next payment date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.InstallmentOverview
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/installments [get]
func (h *reportingHandler) getInstallmentOverview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, asOf, ok := h.requestScope(c, logger)
	if !ok {
		return
	}

	overview, err := h.reportService.InstallmentOverviewForUser(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate installment overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}
