package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/dto"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	converter           portssvc.CurrencyConverterSvc
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade, converter portssvc.CurrencyConverterSvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
		converter:           converter,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates and conversions.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade, converter portssvc.CurrencyConverterSvc) {
	h := newExchangeRateHandler(exchangeRateService, converter)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("/overrides", h.createManualOverride)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
		exchangeRates.GET("/:from/:to/history", h.listObservations)
	}
	rg.POST("/conversions", h.convert)
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Resolves the rate for a currency pair from the cache, the provider or the stale cache
// @Tags exchange rates
// @Produce json
// @Param from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param to path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param refresh query bool false "Bypass the cache and ask the provider"
// @Success 200 {object} dto.RateQuoteResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	refresh, err := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh must be true or false"})
		return
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))
	logger.Info("Received request to get exchange rate", slog.Bool("refresh", refresh))

	quote, err := h.converter.GetRate(c.Request.Context(), fromCode, toCode, refresh)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}

	logger.Info("Exchange rate resolved", slog.String("source", string(quote.Source)))
	c.JSON(http.StatusOK, dto.ToRateQuoteResponse(quote))
}

// listObservations godoc
// @Summary List rate observations
// @Description Lists the recorded observations of a currency pair, newest first
// @Tags exchange rates
// @Produce json
// @Param from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param to path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param limit query int false "Maximum number of observations" minimum(1) maximum(500)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListObservationsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to list observations"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to}/history [get]
func (h *exchangeRateHandler) listObservations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind history query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	var nextToken *string
	if query.NextToken != "" {
		nextToken = &query.NextToken
	}

	observations, next, err := h.exchangeRateService.ListObservations(c.Request.Context(), c.Param("from"), c.Param("to"), query.Limit, nextToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list observations")
		return
	}

	c.JSON(http.StatusOK, dto.ToListObservationsResponse(observations, next))
}

// createManualOverride godoc
// @Summary Override an exchange rate
// @Description Records a manual rate for a pair. It wins over provider rates until a newer observation is recorded.
// @Tags exchange rates
// @Accept json
// @Produce json
// @Param override body dto.ManualOverrideRequest true "Override details"
// @Success 201 {object} dto.ObservationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record override"
// @Security BearerAuth
// @Router /exchange-rates/overrides [post]
func (h *exchangeRateHandler) createManualOverride(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ManualOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ManualOverride", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID))
	logger.Info("Received manual rate override",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
	)

	observation, err := h.exchangeRateService.RecordManualOverride(c.Request.Context(), req.FromCurrencyCode, req.ToCurrencyCode, req.Rate, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record override")
		return
	}

	logger.Info("Manual override recorded", slog.String("observation_id", observation.ObservationID))
	c.JSON(http.StatusCreated, dto.ToObservationResponse(observation))
}

// convert godoc
// @Summary Convert an amount
// @Description Converts an amount between currencies. An unavailable rate is reported, not treated as an error.
// @Tags exchange rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Amount and currency pair"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to convert amount"
// @Security BearerAuth
// @Router /conversions [post]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), req.Amount, req.FromCurrencyCode, req.ToCurrencyCode)
	if err != nil {
		respondWithError(c, logger, err, "Failed to convert amount")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversionResponse(result))
}
