package interfaces

import (
	"context"

	"adsfront/internal/models"
)

// AdsClient is the set of advertisement operations. Both the plain backend
// client and the cached service implement it.
type AdsClient interface {
	ListAds(ctx context.Context) ([]models.Ad, error)
	CreateAd(ctx context.Context, in models.CreateAdInput) (*models.Ad, error)
	DeleteAd(ctx context.Context, in models.DeleteAdInput) error
	UpdateAd(ctx context.Context, in models.UpdateAdInput) (*models.Ad, error)
}

// AdLister is what snapshot export needs.
type AdLister interface {
	ListAds(ctx context.Context) ([]models.Ad, error)
}
