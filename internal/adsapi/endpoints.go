package adsapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"adsfront/internal/models"
)

// Tag groups cached results so a mutation can mark them stale.
type Tag struct {
	Type string
	ID   string
}

func (t Tag) String() string {
	return t.Type + "/" + t.ID
}

// ListTag stands for the full advertisement listing. The list endpoint is
// its only provider and every mutation invalidates it.
var ListTag = Tag{Type: "Ads", ID: "LIST"}

// Endpoint describes one remote operation and the cache tags it touches.
type Endpoint struct {
	Name        string
	Method      string
	Provides    []Tag
	Invalidates []Tag
}

var (
	GetAllAds = Endpoint{
		Name:     "getAllAds",
		Method:   http.MethodGet,
		Provides: []Tag{ListTag},
	}
	PostAds = Endpoint{
		Name:        "postAds",
		Method:      http.MethodPost,
		Invalidates: []Tag{ListTag},
	}
	DeleteAdsByID = Endpoint{
		Name:        "deleteAdsById",
		Method:      http.MethodDelete,
		Invalidates: []Tag{ListTag},
	}
	UpdateAdsByID = Endpoint{
		Name:        "updateAdsById",
		Method:      http.MethodPatch,
		Invalidates: []Tag{ListTag},
	}
)

// Endpoints returns every endpoint the client knows about.
func Endpoints() []Endpoint {
	return []Endpoint{GetAllAds, PostAds, DeleteAdsByID, UpdateAdsByID}
}

// Request is a single-use description of an outgoing call. Path is already
// escaped; Body is nil when nothing is sent.
type Request struct {
	Endpoint Endpoint
	Path     string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

func (r *Request) Method() string {
	return r.Endpoint.Method
}

// Target returns the path with its encoded query string.
func (r *Request) Target() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

func ListAdsRequest() *Request {
	return &Request{
		Endpoint: GetAllAds,
		Path:     "/ads",
		Query:    url.Values{"sorting": []string{"new"}},
		Header:   http.Header{},
	}
}

func CreateAdRequest(in models.CreateAdInput) (*Request, error) {
	body, err := encodeJSON(in.Ad)
	if err != nil {
		return nil, err
	}
	return &Request{
		Endpoint: PostAds,
		Path:     "/adstext",
		Header:   authHeader(in.Token),
		Body:     body,
	}, nil
}

// DeleteAdRequest path-escapes the id, so "a/b" addresses one ad rather
// than a nested path.
func DeleteAdRequest(in models.DeleteAdInput) *Request {
	return &Request{
		Endpoint: DeleteAdsByID,
		Path:     "/ads/" + url.PathEscape(in.ID),
		Header:   authHeader(in.Token),
	}
}

func UpdateAdRequest(in models.UpdateAdInput) (*Request, error) {
	body, err := encodeJSON(in.Ad)
	if err != nil {
		return nil, err
	}
	return &Request{
		Endpoint: UpdateAdsByID,
		Path:     "/ads/" + strconv.Itoa(in.ID),
		Header:   authHeader(in.Token),
		Body:     body,
	}, nil
}

func authHeader(t models.Token) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", t.Authorization())
	return h
}

// encodeJSON marshals v without HTML escaping or a trailing newline. U+2028
// and U+2029 are still written as \u escapes and invalid UTF-8 becomes
// U+FFFD; both decode to the same JSON value.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
