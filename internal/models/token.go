package models

// Token is the bearer-style credential issued by the auth backend.
type Token struct {
	TokenType   string `json:"token_type" validate:"required"`
	AccessToken string `json:"access_token" validate:"required"`
}

// Authorization renders the value of the Authorization header.
func (t Token) Authorization() string {
	return t.TokenType + " " + t.AccessToken
}
