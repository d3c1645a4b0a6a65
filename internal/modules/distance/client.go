package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"distance-shipping/internal/models"
	"distance-shipping/pkg/diag"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	defaultTimeout = 15 * time.Second

	statusOK = "OK"
)

// ClientInterface is the contract the quote service depends on for distance
// lookups.
type ClientInterface interface {
	Fetch(ctx context.Context, query models.DistanceQuery, apiKey string) (models.DistanceResult, error)
}

// Client calls the Distance Matrix API, maps provider status codes to typed
// errors and picks one route candidate per the configured preference. Every
// failure branch comes back as a single typed error so callers can degrade
// gracefully instead of aborting order calculation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sink       diag.Sink
}

// NewClient creates a distance API client with a bounded request timeout.
func NewClient(sink diag.Sink) *Client {
	if sink == nil {
		sink = diag.Nop{}
	}
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		sink:       sink,
	}
}

// matrixResponse mirrors the parts of the Distance Matrix API response this
// service cares about.
type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
				Text  string  `json:"text"`
			} `json:"distance"`
			Duration struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Fetch resolves the travel distance between the query's origin and
// destination. The returned distance is already converted to the configured
// unit and, when configured, rounded up.
func (c *Client) Fetch(ctx context.Context, query models.DistanceQuery, apiKey string) (models.DistanceResult, error) {
	if query.Origin == "" || query.Destination == "" {
		return models.DistanceResult{}, models.ErrInvalidLocation
	}

	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("mode", string(query.TravelMode))
	if query.Restriction != models.RestrictionNone {
		params.Set("avoid", string(query.Restriction))
	}
	params.Set("units", string(query.Unit))
	if query.Language != "" {
		params.Set("language", query.Language)
	}
	params.Set("origins", query.Origin)
	params.Set("destinations", query.Destination)

	requestURL := c.baseURL + "?" + params.Encode()
	c.sink.Debug("api request url: " + diag.MaskKey(requestURL, apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return models.DistanceResult{}, &models.TransportError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.DistanceResult{}, &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.DistanceResult{}, &models.TransportError{Err: err}
	}
	if len(body) == 0 {
		return models.DistanceResult{}, &models.MalformedResponseError{Reason: "response body is empty"}
	}

	var payload matrixResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.DistanceResult{}, &models.MalformedResponseError{Reason: err.Error()}
	}

	if payload.Status != statusOK {
		return models.DistanceResult{}, &models.ProviderError{Status: payload.Status, Message: payload.ErrorMessage}
	}

	var elementErrors []string
	var candidates []models.RouteCandidate

	for _, row := range payload.Rows {
		for _, element := range row.Elements {
			if element.Status != statusOK {
				elementErrors = append(elementErrors, element.Status)
				continue
			}
			candidates = append(candidates, models.RouteCandidate{
				Distance:     ToUnit(element.Distance.Value, query.Unit),
				DistanceText: element.Distance.Text,
				Duration:     element.Duration.Value,
				DurationText: element.Duration.Text,
			})
		}
	}

	if len(candidates) == 0 {
		return models.DistanceResult{}, &models.NoRouteError{Status: firstRecognized(elementErrors)}
	}

	chosen, err := SelectRoute(candidates, query.PreferredRoute)
	if err != nil {
		return models.DistanceResult{}, fmt.Errorf("client.Fetch: %w", err)
	}

	if query.RoundUp {
		chosen.Distance, chosen.DistanceText = RoundUp(chosen.Distance, chosen.DistanceText)
	}

	return models.DistanceResult{
		Distance:     chosen.Distance,
		DistanceText: chosen.DistanceText,
		Duration:     chosen.Duration,
		DurationText: chosen.DurationText,
		Response:     json.RawMessage(body),
	}, nil
}

// firstRecognized returns the first per-element error code that has a
// descriptive message, or empty for the generic no-results error.
func firstRecognized(codes []string) string {
	for _, code := range codes {
		switch code {
		case "NOT_FOUND", "ZERO_RESULTS", "MAX_ROUTE_LENGTH_EXCEEDED":
			return code
		}
	}
	return ""
}
