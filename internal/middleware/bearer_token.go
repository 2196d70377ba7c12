package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"adsfront/internal/models"
)

type ctxKey string

const ctxToken ctxKey = "ads_token"

// BearerToken turns the incoming Authorization header into a models.Token
// that mutations forward to the backend unchanged. The gateway does not
// verify the token; that is the backend's job.
func BearerToken(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := ParseAuthorization(r.Header.Get("Authorization"))
			if !ok {
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			if sub := subject(tok.AccessToken); sub != "" {
				logger.Debug().Str("sub", sub).Str("path", r.URL.Path).Msg("forwarding token")
			}

			ctx := context.WithValue(r.Context(), ctxToken, tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseAuthorization splits "<type> <token>". Any scheme is accepted.
func ParseAuthorization(header string) (models.Token, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return models.Token{}, false
	}
	tok := models.Token{TokenType: parts[0], AccessToken: strings.TrimSpace(parts[1])}
	if tok.TokenType == "" || tok.AccessToken == "" {
		return models.Token{}, false
	}
	return tok, true
}

func TokenFrom(ctx context.Context) (models.Token, bool) {
	tok, ok := ctx.Value(ctxToken).(models.Token)
	return tok, ok
}

// subject reads the sub claim without checking the signature. Opaque
// tokens yield "".
func subject(raw string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": "unauthorized", "message": message})
}
