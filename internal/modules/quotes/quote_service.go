package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"distance-shipping/internal/models"
	"distance-shipping/internal/modules/distance"
	"distance-shipping/internal/modules/rates"
	"distance-shipping/pkg/diag"

	"github.com/google/uuid"
)

// ServiceInterface defines the business operations of the quotes module.
type ServiceInterface interface {
	// Quote resolves the travel distance for a package and destination and
	// turns it into a shipping rate record via the validated rate table.
	Quote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)

	// SaveRateTable validates raw settings rows and, when they are clean,
	// persists and activates the canonical table. Validation errors are
	// returned in full, never one at a time.
	SaveRateTable(ctx context.Context, rows []models.RawRateRow) (models.RateTable, []error, error)

	// RateTable returns the currently active table.
	RateTable() models.RateTable
}

// Service implements ServiceInterface.
type Service struct {
	repo       RepositoryInterface
	client     distance.ClientInterface
	cache      *distance.Cache
	validator  *rates.Validator
	settings   models.MethodSettings
	instanceID string
	sink       diag.Sink
	opts       rates.ResolveOptions

	mu    sync.RWMutex
	table models.RateTable
}

// NewService creates a quote service for one shipping method instance. The
// settings are treated as immutable; the sink receives diagnostic lines and
// may be diag.Nop when debugging is off.
func NewService(
	repo RepositoryInterface,
	client distance.ClientInterface,
	cache *distance.Cache,
	validator *rates.Validator,
	settings models.MethodSettings,
	instanceID string,
	sink diag.Sink,
	opts rates.ResolveOptions,
) *Service {
	if sink == nil {
		sink = diag.Nop{}
	}
	return &Service{
		repo:       repo,
		client:     client,
		cache:      cache,
		validator:  validator,
		settings:   settings,
		instanceID: instanceID,
		sink:       sink,
		opts:       opts,
	}
}

// LoadTable pulls the persisted canonical table of this instance into
// memory. Called once at startup; SaveRateTable refreshes it afterwards.
func (s *Service) LoadTable(ctx context.Context) error {
	table, err := s.repo.LoadRateTable(ctx, s.instanceID)
	if err != nil {
		return fmt.Errorf("service.LoadTable: %w", err)
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	return nil
}

// RateTable returns the active table.
func (s *Service) RateTable() models.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Quote implements the calculation flow: resolve locations, obtain a
// distance (cache first unless debugging), match the rate table and compute
// the cost breakdown. Every failure comes back as an error for the handler
// to log and degrade on; this method never panics into the caller.
func (s *Service) Quote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	settings := s.settings

	if settings.Origin.IsZero() {
		return nil, fmt.Errorf("service.Quote: %w", models.ErrInvalidLocation)
	}
	dest := destinationString(req, settings)
	if dest == "" {
		return nil, fmt.Errorf("service.Quote: %w", models.ErrInvalidLocation)
	}

	query := models.DistanceQuery{
		Origin:         settings.Origin.LocationString(),
		Destination:    dest,
		TravelMode:     settings.TravelMode,
		Restriction:    settings.RouteRestriction,
		Unit:           settings.DistanceUnit,
		PreferredRoute: settings.PreferredRoute,
		Language:       settings.Language,
		RoundUp:        settings.RoundUpDistance,
	}
	pkg := models.Package{Items: req.Items}

	result, err := s.distanceFor(ctx, query, pkg, settings)
	if err != nil {
		return nil, fmt.Errorf("service.Quote: %w", err)
	}

	rule, err := rates.FindRule(result.Distance, settings.DistanceUnit, s.RateTable())
	if err != nil {
		return nil, fmt.Errorf("service.Quote: %w", err)
	}

	breakdown, err := rates.ComputeCost(rule, pkg, result.Distance, settings.ProLicense, s.opts)
	if err != nil {
		return nil, fmt.Errorf("service.Quote: %w", err)
	}

	label := breakdown.Label
	if label == "" {
		label = settings.ShippingLabel
	}
	if settings.ShowDistance && result.DistanceText != "" {
		label = fmt.Sprintf("%s (%s)", label, result.DistanceText)
	}

	quote := &models.Quote{
		ID:        uuid.NewString(),
		Label:     label,
		Cost:      breakdown.Total,
		Breakdown: breakdown,
		Distance:  result,
	}

	if err := s.repo.SaveQuote(ctx, s.instanceID, quote); err != nil {
		return nil, fmt.Errorf("service.Quote: %w", err)
	}
	return quote, nil
}

// distanceFor consults the request cache before going to the distance API.
// The cache is bypassed entirely in debug mode so diagnostics always see a
// live request.
func (s *Service) distanceFor(ctx context.Context, query models.DistanceQuery, pkg models.Package, settings models.MethodSettings) (models.DistanceResult, error) {
	key := distance.Fingerprint(query, pkg, settings)

	if !settings.DebugMode {
		if cached, ok := s.cache.Get(key); ok {
			s.sink.Debug("cache key: " + key)
			if payload, err := json.Marshal(cached); err == nil {
				s.sink.Debug("cached data: " + string(payload))
			}
			return cached, nil
		}
	}

	result, err := s.client.Fetch(ctx, query, settings.APIKey)
	if err != nil {
		return models.DistanceResult{}, err
	}

	if !settings.DebugMode {
		s.cache.Put(key, result)
	}
	return result, nil
}

// SaveRateTable validates and activates a new rate table. When any row is
// invalid nothing is persisted and the complete error list is returned.
func (s *Service) SaveRateTable(ctx context.Context, rows []models.RawRateRow) (models.RateTable, []error, error) {
	table, errs := s.validator.Validate(rows)
	if len(errs) > 0 {
		return nil, errs, nil
	}

	if err := s.repo.ReplaceRateTable(ctx, s.instanceID, table); err != nil {
		return nil, nil, fmt.Errorf("service.SaveRateTable: %w", err)
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	return table, nil, nil
}

// destinationString picks the destination location: the map-picked
// coordinate when the address picker is enabled and one was supplied, the
// formatted address otherwise.
func destinationString(req models.QuoteRequest, settings models.MethodSettings) string {
	if settings.EnableAddressPicker && req.DestinationCoordinate != nil && !req.DestinationCoordinate.IsZero() {
		return req.DestinationCoordinate.LocationString()
	}
	if req.Destination.IsZero() {
		return ""
	}
	return req.Destination.LocationString()
}
