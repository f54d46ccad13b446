package places

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/you/meddirsvc/domain"
)

// BusinessStatusOperational is the fallback status when the provider fails.
const BusinessStatusOperational = "OPERATIONAL"

// GoogleServiceImpl implements domain.PlacesService against the Google
// Places API.
type GoogleServiceImpl struct {
	client *maps.Client
	logger *zap.Logger
}

// NewGoogleService creates a new places enrichment service. A missing API key
// leaves the client nil; every lookup then degrades to the fallback payload.
func NewGoogleService(apiKey string, logger *zap.Logger) (domain.PlacesService, error) {
	svc := &GoogleServiceImpl{logger: logger}

	if apiKey == "" {
		logger.Warn("google api key not configured, places enrichment disabled")
		return svc, nil
	}

	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	svc.client = client
	return svc, nil
}

// Lookup implements domain.PlacesService. Provider failures never propagate:
// directory pages render with the zero-value payload instead of erroring.
func (g *GoogleServiceImpl) Lookup(ctx context.Context, query string, byTitle bool) (*domain.PlaceInfo, error) {
	if g.client == nil {
		return fallbackInfo(), nil
	}

	searchQuery := query
	if byTitle {
		searchQuery = fmt.Sprintf("%q", query)
	}

	search, err := g.client.TextSearch(ctx, &maps.TextSearchRequest{Query: searchQuery})
	if err != nil {
		g.logger.Warn("places text search failed", zap.String("query", query), zap.Error(err))
		return fallbackInfo(), nil
	}
	if len(search.Results) == 0 {
		return fallbackInfo(), nil
	}

	details, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: search.Results[0].PlaceID,
	})
	if err != nil {
		g.logger.Warn("place details failed", zap.String("place_id", search.Results[0].PlaceID), zap.Error(err))
		return fallbackInfo(), nil
	}

	info := &domain.PlaceInfo{
		PlaceID:            details.PlaceID,
		Name:               details.Name,
		BusinessStatus:     details.BusinessStatus,
		FormattedAddress:   details.FormattedAddress,
		FormattedPhone:     details.FormattedPhoneNumber,
		InternationalPhone: details.InternationalPhoneNumber,
		Lat:                details.Geometry.Location.Lat,
		Lng:                details.Geometry.Location.Lng,
		Rating:             details.Rating,
		UserRatingsTotal:   details.UserRatingsTotal,
		Website:            details.Website,
		URL:                details.URL,
		Types:              details.Types,
	}
	if details.OpeningHours != nil {
		info.OpeningHours = details.OpeningHours.WeekdayText
	}
	if info.BusinessStatus == "" {
		info.BusinessStatus = BusinessStatusOperational
	}

	return info, nil
}

func fallbackInfo() *domain.PlaceInfo {
	return &domain.PlaceInfo{
		BusinessStatus: BusinessStatusOperational,
		OpeningHours:   []string{},
		Types:          []string{},
	}
}
