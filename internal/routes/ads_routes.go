package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"adsfront/internal/handlers"
	"adsfront/internal/interfaces"
	"adsfront/internal/middleware"
)

func RegisterAdsRoutes(r chi.Router, ads interfaces.AdsClient, logger zerolog.Logger) {
	h := handlers.NewAdsHandler(ads, logger)

	r.Route("/ads", func(r chi.Router) {
		r.Get("/", h.ListAds)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerToken(logger))
			r.Post("/", h.CreateAd)
			r.Patch("/{id}", h.UpdateAd)
			r.Delete("/{id}", h.DeleteAd)
		})
	})
}
