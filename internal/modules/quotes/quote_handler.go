package quotes

import (
	"net/http"

	"distance-shipping/internal/models"
	"distance-shipping/pkg/diag"
	"distance-shipping/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for shipping quotes and rate table settings.
type Handler struct {
	svc  ServiceInterface
	sink diag.Sink
}

// NewHandler creates a new quotes handler.
func NewHandler(svc ServiceInterface, sink diag.Sink) *Handler {
	if sink == nil {
		sink = diag.Nop{}
	}
	return &Handler{svc: svc, sink: sink}
}

// GetShippingQuote handles POST /quotes. Calculation failures are written to
// the diagnostics channel and answered with an empty rate list: the method
// silently contributes no rate instead of breaking the caller's checkout.
func (h *Handler) GetShippingQuote(c echo.Context) error {
	var req models.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	quote, err := h.svc.Quote(c.Request().Context(), req)
	if err != nil {
		h.sink.Error(err.Error())
		return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"rates": []*models.Quote{}})
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"rates": []*models.Quote{quote}})
}

// SaveRateTable handles POST /settings/rates: validate the submitted rows
// and, when they are all clean, replace the active table. Row errors are
// returned together so the configurator can fix everything in one pass.
func (h *Handler) SaveRateTable(c echo.Context) error {
	var req models.RateTableRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	table, rowErrs, err := h.svc.SaveRateTable(c.Request().Context(), req.Rows)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save rate table")
	}
	if len(rowErrs) > 0 {
		messages := make([]string, 0, len(rowErrs))
		for _, rowErr := range rowErrs {
			messages = append(messages, rowErr.Error())
		}
		return utils.RespondWithJSON(c, http.StatusUnprocessableEntity, map[string]interface{}{"errors": messages})
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"rules": table})
}

// GetRateTable handles GET /settings/rates.
func (h *Handler) GetRateTable(c echo.Context) error {
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"rules": h.svc.RateTable()})
}
