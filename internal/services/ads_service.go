package services

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"adsfront/internal/adsapi"
	"adsfront/internal/cache"
	"adsfront/internal/interfaces"
	"adsfront/internal/metrics"
	"adsfront/internal/models"
)

// AdsService is the application-side view of the ads backend: list reads go
// through the cache and successful mutations invalidate what they declare.
type AdsService struct {
	client  *adsapi.Client
	cache   *cache.Cache
	metrics *metrics.Metrics
	listKey string
	log     zerolog.Logger
}

var _ interfaces.AdsClient = (*AdsService)(nil)

func NewAdsService(client *adsapi.Client, c *cache.Cache, m *metrics.Metrics, logger zerolog.Logger) *AdsService {
	list := adsapi.ListAdsRequest()
	return &AdsService{
		client:  client,
		cache:   c,
		metrics: m,
		listKey: cache.Key(list.Method(), client.URL(list)),
		log:     logger.With().Str("component", "ads_service").Logger(),
	}
}

func (s *AdsService) ListAds(ctx context.Context) ([]models.Ad, error) {
	payload, res, err := s.cache.Fetch(ctx, s.listKey, adsapi.ListTag.String(), func(ctx context.Context) ([]byte, error) {
		ads, err := s.client.ListAds(ctx)
		s.metrics.Requests.WithLabelValues(adsapi.GetAllAds.Name, metrics.Outcome(err)).Inc()
		if err != nil {
			return nil, err
		}
		return json.Marshal(ads)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.CacheLookups.WithLabelValues(res.String()).Inc()

	// Each caller gets its own copy of the listing.
	var ads []models.Ad
	if err := json.Unmarshal(payload, &ads); err != nil {
		// Drop the bad entry so the next read goes back to the backend.
		if eerr := s.cache.Evict(context.WithoutCancel(ctx), s.listKey); eerr != nil {
			s.log.Error().Err(eerr).Msg("evicting undecodable listing failed")
		}
		return nil, errors.Wrap(err, "decode cached listing")
	}
	return ads, nil
}

func (s *AdsService) CreateAd(ctx context.Context, in models.CreateAdInput) (*models.Ad, error) {
	ad, err := s.client.CreateAd(ctx, in)
	s.settle(ctx, adsapi.PostAds, err)
	return ad, err
}

func (s *AdsService) DeleteAd(ctx context.Context, in models.DeleteAdInput) error {
	err := s.client.DeleteAd(ctx, in)
	s.settle(ctx, adsapi.DeleteAdsByID, err)
	return err
}

func (s *AdsService) UpdateAd(ctx context.Context, in models.UpdateAdInput) (*models.Ad, error) {
	ad, err := s.client.UpdateAd(ctx, in)
	s.settle(ctx, adsapi.UpdateAdsByID, err)
	return ad, err
}

// settle records the outcome of a mutation and, when the backend accepted
// it, invalidates the tags the endpoint declares. A 2xx answer that could
// not be decoded still counts as accepted. The invalidation runs before the
// mutation returns to its caller.
func (s *AdsService) settle(ctx context.Context, e adsapi.Endpoint, err error) {
	if errors.Is(err, adsapi.ErrInvalidInput) {
		return
	}
	s.metrics.Requests.WithLabelValues(e.Name, metrics.Outcome(err)).Inc()
	if err != nil && !errors.Is(err, adsapi.ErrMalformedResponse) {
		return
	}
	for _, tag := range e.Invalidates {
		// The mutation already happened; a caller cancelling now must not
		// leave the old listing in place.
		if ierr := s.cache.Invalidate(context.WithoutCancel(ctx), tag.String()); ierr != nil {
			s.log.Error().Err(ierr).Str("endpoint", e.Name).Str("tag", tag.String()).Msg("invalidation failed")
			continue
		}
		s.metrics.Invalidations.WithLabelValues(tag.String()).Inc()
	}
}
