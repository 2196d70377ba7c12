// internal/models/ad.go
package models

// Ad is an advertisement as the backend returns it. Only id, title,
// description and price are guaranteed; the rest is filled when present.
type Ad struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	UserID      int       `json:"user_id,omitempty"`
	CreatedOn   string    `json:"created_on,omitempty"`
	Images      []AdImage `json:"images,omitempty"`
	User        *Seller   `json:"user,omitempty"`
}

type AdImage struct {
	ID   int    `json:"id"`
	AdID int    `json:"ad_id"`
	URL  string `json:"url"`
}

type Seller struct {
	ID        int    `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	City      string `json:"city,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	SellsFrom string `json:"sells_from,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// AdFields is the body of a create request. All three fields are sent.
type AdFields struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// AdPatch is the body of an update request. A nil Price is sent as null,
// which tells the backend to clear the price.
type AdPatch struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
}

type CreateAdInput struct {
	Token Token
	Ad    AdFields `validate:"-"`
}

type DeleteAdInput struct {
	ID    string `validate:"required"`
	Token Token
}

type UpdateAdInput struct {
	ID    int
	Ad    AdPatch `validate:"-"`
	Token Token
}

// Float returns a pointer to v, for building prices.
func Float(v float64) *float64 {
	return &v
}
