package adsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"adsfront/internal/models"
)

// Transport is what the client needs to reach the backend. A nil HTTPClient
// means http.DefaultClient; a nil Limiter means no throttling.
type Transport struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// NewTransport builds a Transport with an optional per-request timeout and
// rate limit. Zero values disable either.
func NewTransport(baseURL string, timeout time.Duration, rps float64, burst int) Transport {
	t := Transport{BaseURL: baseURL}
	if timeout > 0 {
		t.HTTPClient = &http.Client{Timeout: timeout}
	}
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		t.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return t
}

// Client issues the four advertisement calls. It keeps no state between
// calls and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	validate   *validator.Validate
	log        zerolog.Logger
}

func NewClient(t Transport, logger zerolog.Logger) *Client {
	hc := t.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(t.BaseURL, "/"),
		httpClient: hc,
		limiter:    t.Limiter,
		validate:   validator.New(),
		log:        logger.With().Str("component", "adsapi").Logger(),
	}
}

// URL resolves a request against the configured base URL.
func (c *Client) URL(req *Request) string {
	return c.baseURL + req.Target()
}

// ListAds fetches every advertisement, newest first.
func (c *Client) ListAds(ctx context.Context) ([]models.Ad, error) {
	var ads []models.Ad
	if err := c.do(ctx, ListAdsRequest(), &ads); err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []models.Ad{}
	}
	return ads, nil
}

// CreateAd returns the created advertisement, or nil when the backend
// answered without a body.
func (c *Client) CreateAd(ctx context.Context, in models.CreateAdInput) (*models.Ad, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	req, err := CreateAdRequest(in)
	if err != nil {
		return nil, errors.Wrap(err, PostAds.Name)
	}
	var ad *models.Ad
	if err := c.do(ctx, req, &ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// DeleteAd removes one advertisement. Whatever the backend answers with on
// success is discarded.
func (c *Client) DeleteAd(ctx context.Context, in models.DeleteAdInput) error {
	if err := c.check(in); err != nil {
		return err
	}
	return c.do(ctx, DeleteAdRequest(in), nil)
}

// UpdateAd returns the updated advertisement, or nil when the backend
// answered without a body.
func (c *Client) UpdateAd(ctx context.Context, in models.UpdateAdInput) (*models.Ad, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	req, err := UpdateAdRequest(in)
	if err != nil {
		return nil, errors.Wrap(err, UpdateAdsByID.Name)
	}
	var ad *models.Ad
	if err := c.do(ctx, req, &ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (c *Client) check(in any) error {
	if err := c.validate.Struct(in); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	return nil
}

func (c *Client) do(ctx context.Context, r *Request, out any) error {
	name := r.Endpoint.Name
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, name)
		}
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method(), c.URL(r), body)
	if err != nil {
		return errors.Wrap(err, name)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	c.log.Debug().Str("endpoint", name).Str("method", req.Method).Str("target", r.Target()).Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, name)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s: read response", name)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Endpoint:   name,
			Method:     req.Method,
			Path:       r.Path,
			StatusCode: resp.StatusCode,
			Body:       string(payload),
		}
	}

	// An empty 2xx body carries no data; out keeps its zero value.
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "%s: %v", name, err)
	}
	return nil
}
