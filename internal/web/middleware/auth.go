package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/envelope"
)

type contextKey string

const accountContextKey contextKey = "account"

var (
	ErrMissingToken = errors.New("missing or invalid authorization header")
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by telemetry tokens. Issuers put the account id in "cnpj";
// "account_id" is accepted when it is absent.
type Claims struct {
	CNPJ      string `json:"cnpj,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	jwt.RegisteredClaims
}

// Account returns the account id the token was issued for.
func (c *Claims) Account() string {
	if c.CNPJ != "" {
		return c.CNPJ
	}
	return c.AccountID
}

// TokenValidator checks HMAC-signed bearer tokens
type TokenValidator struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenValidator creates a validator for the configured secret and algorithm.
func NewTokenValidator(cfg config.JWTConfig) (*TokenValidator, error) {
	if cfg.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	var method jwt.SigningMethod
	switch strings.ToUpper(cfg.Algorithm) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing method: %s", cfg.Algorithm)
	}
	return &TokenValidator{secret: []byte(cfg.Secret), method: method}, nil
}

// Validate parses the token and returns its claims.
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{v.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Account() == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// RequireBearer rejects requests without a valid bearer token with 401 and
// stores the token's account id in the request context.
func RequireBearer(v *TokenValidator, b *envelope.Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				reject(w, r, b, ErrMissingToken)
				return
			}
			claims, err := v.Validate(token)
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					reject(w, r, b, ErrExpiredToken)
				} else {
					reject(w, r, b, ErrInvalidToken)
				}
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey, claims.Account())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, b *envelope.Builder, reason error) {
	status, body := b.Failure(envelope.NewAuthError(reason.Error()), "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// AccountFromContext returns the authenticated account id, empty if none.
func AccountFromContext(ctx context.Context) string {
	account, _ := ctx.Value(accountContextKey).(string)
	return account
}

// SetAccountInContext adds an account id to the context.
// This is primarily for testing - use RequireBearer in production.
func SetAccountInContext(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}
