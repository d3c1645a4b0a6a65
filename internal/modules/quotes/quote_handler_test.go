package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"distance-shipping/internal/models"
	"distance-shipping/pkg/diag"

	"github.com/labstack/echo/v4"
)

type fakeService struct {
	quote    *models.Quote
	quoteErr error
	table    models.RateTable
	rowErrs  []error
	saveErr  error
}

func (f *fakeService) Quote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeService) SaveRateTable(ctx context.Context, rows []models.RawRateRow) (models.RateTable, []error, error) {
	return f.table, f.rowErrs, f.saveErr
}

func (f *fakeService) RateTable() models.RateTable { return f.table }

func postJSON(t *testing.T, h echo.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

const quoteBody = `{
	"destination": {"address_1": "Unter den Linden 1", "city": "Berlin", "postcode": "10117", "country": "DE"},
	"items": [{"product_id": "sku-1", "shipping_class_id": 0, "quantity": 1, "unit_price": 10}]
}`

func TestGetShippingQuote(t *testing.T) {
	svc := &fakeService{quote: &models.Quote{ID: "q1", Label: "Courier Delivery", Cost: 25}}
	h := NewHandler(svc, diag.Nop{})

	rec := postJSON(t, h.GetShippingQuote, "/api/quotes", quoteBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Rates []models.Quote `json:"rates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Rates) != 1 || resp.Rates[0].Cost != 25 {
		t.Errorf("rates = %+v, want the single quote", resp.Rates)
	}
}

// Calculation failures must not surface as HTTP errors: the method degrades
// to contributing no rate so checkout continues.
func TestGetShippingQuoteDegradesOnError(t *testing.T) {
	sink := diag.NewCollector(false)
	svc := &fakeService{quoteErr: &models.NoRouteError{Status: "ZERO_RESULTS"}}
	h := NewHandler(svc, sink)

	rec := postJSON(t, h.GetShippingQuote, "/api/quotes", quoteBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on failure", rec.Code)
	}

	var resp struct {
		Rates []models.Quote `json:"rates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Rates) != 0 {
		t.Errorf("rates = %+v, want an empty list", resp.Rates)
	}

	lines := sink.Lines()
	if len(lines) == 0 || lines[0].Level != "ERROR" {
		t.Errorf("failure was not written to diagnostics: %+v", lines)
	}
}

func TestGetShippingQuoteRejectsEmptyItems(t *testing.T) {
	h := NewHandler(&fakeService{}, diag.Nop{})

	rec := postJSON(t, h.GetShippingQuote, "/api/quotes", `{"destination": {}, "items": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an empty item list", rec.Code)
	}
}

func TestSaveRateTableReportsRowErrors(t *testing.T) {
	svc := &fakeService{rowErrs: []error{
		&models.FieldValidationError{Row: 1, Field: "Maximum Distances", Message: "field value must be numeric"},
		errors.New("table is empty"),
	}}
	h := NewHandler(svc, diag.Nop{})

	rec := postJSON(t, h.SaveRateTable, "/api/settings/rates", `{"rows": [{"max_distance": "abc"}]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Errors) != 2 {
		t.Errorf("errors = %v, want both reported at once", resp.Errors)
	}
}

func TestSaveRateTableSuccess(t *testing.T) {
	svc := &fakeService{table: models.RateTable{{MaxDistance: 10, ClassRates: map[int]float64{0: 5}}}}
	h := NewHandler(svc, diag.Nop{})

	rec := postJSON(t, h.SaveRateTable, "/api/settings/rates", `{"rows": [{"max_distance": "10", "class_0": "5"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Rules models.RateTable `json:"rules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Rules) != 1 {
		t.Errorf("rules = %+v, want the saved table", resp.Rules)
	}
}
