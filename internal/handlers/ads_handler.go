package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"adsfront/internal/adsapi"
	"adsfront/internal/interfaces"
	"adsfront/internal/middleware"
	"adsfront/internal/models"
)

type AdsHandler struct {
	ads       interfaces.AdsClient
	validator *validator.Validate
	log       zerolog.Logger
}

func NewAdsHandler(ads interfaces.AdsClient, logger zerolog.Logger) *AdsHandler {
	return &AdsHandler{
		ads:       ads,
		validator: validator.New(),
		log:       logger.With().Str("component", "ads_handler").Logger(),
	}
}

// CreateAdRequest requires every field to be present; values are passed to
// the backend as given.
type CreateAdRequest struct {
	Title       *string  `json:"title" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
}

// UpdateAdRequest requires title and description and an explicit price,
// which may be null to clear it.
type UpdateAdRequest struct {
	Title       *string       `json:"title" validate:"required"`
	Description *string       `json:"description" validate:"required"`
	Price       NullablePrice `json:"price" swaggertype:"number"`
}

// NullablePrice tells a null price apart from a missing one.
type NullablePrice struct {
	Set   bool
	Value *float64
}

func (p *NullablePrice) UnmarshalJSON(b []byte) error {
	p.Set = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// @Tags Ads
// @Summary List advertisements, newest first
// @Produce json
// @Success 200 {array} models.Ad
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/ads [get]
func (h *AdsHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.ads.ListAds(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

// @Tags Ads
// @Summary Create an advertisement
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param ad body CreateAdRequest true "Advertisement"
// @Success 201 {object} models.Ad
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/ads [post]
func (h *AdsHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.TokenFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
		return
	}

	var req CreateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	ad, err := h.ads.CreateAd(r.Context(), models.CreateAdInput{
		Token: tok,
		Ad: models.AdFields{
			Title:       *req.Title,
			Description: *req.Description,
			Price:       *req.Price,
		},
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if ad == nil {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "ad created"})
		return
	}
	writeJSON(w, http.StatusCreated, ad)
}

// @Tags Ads
// @Summary Update an advertisement
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Advertisement ID"
// @Param ad body UpdateAdRequest true "Fields; price may be null"
// @Success 200 {object} models.Ad
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/ads/{id} [patch]
func (h *AdsHandler) UpdateAd(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.TokenFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Ad ID must be an integer")
		return
	}

	var req UpdateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if !req.Price.Set {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "price is required (use null to clear it)")
		return
	}

	ad, err := h.ads.UpdateAd(r.Context(), models.UpdateAdInput{
		ID: id,
		Ad: models.AdPatch{
			Title:       *req.Title,
			Description: *req.Description,
			Price:       req.Price.Value,
		},
		Token: tok,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if ad == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ad updated"})
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

// @Tags Ads
// @Summary Delete an advertisement
// @Security BearerAuth
// @Produce json
// @Param id path string true "Advertisement ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/ads/{id} [delete]
func (h *AdsHandler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.TokenFrom(r.Context())
	if !ok {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.ads.DeleteAd(r.Context(), models.DeleteAdInput{ID: id, Token: tok}); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ad deleted successfully",
		"id":      id,
	})
}

// writeError relays backend statuses as they are and maps everything else
// to 400 or 502.
func (h *AdsHandler) writeError(w http.ResponseWriter, err error) {
	var apiErr *adsapi.APIError
	switch {
	case errors.Is(err, adsapi.ErrInvalidInput):
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.As(err, &apiErr):
		writeJSONErrorResponse(w, apiErr.StatusCode, "backend_error", apiErr.Body)
	default:
		h.log.Error().Err(err).Msg("ads backend call failed")
		writeJSONErrorResponse(w, http.StatusBadGateway, "backend_unavailable", "Ads backend is unavailable")
	}
}
