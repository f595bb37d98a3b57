package middleware

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"coursegen/internal/config"
	"coursegen/internal/models"
	"coursegen/internal/util"
)

const (
	identityKey   = "identity"
	sessionCookie = "__session"

	// HeaderDevUser names the caller when no verification key is configured and
	// the development header is enabled.
	HeaderDevUser = "X-User-Email"
)

var errNoToken = errors.New("missing session token")

// Authenticator verifies session tokens issued by the identity provider.
type Authenticator struct {
	secret    []byte
	publicKey *rsa.PublicKey
	issuer    string
	devHeader bool
	logger    *util.Logger
}

// NewAuthenticator builds an authenticator from HS256 secret and/or RS256 public key settings.
func NewAuthenticator(cfg *config.Config) (*Authenticator, error) {
	a := &Authenticator{
		issuer:    strings.TrimSpace(cfg.AuthJWTIssuer),
		devHeader: cfg.AuthDevHeader,
		logger:    util.NewLogger("Auth"),
	}
	if cfg.AuthJWTSecret != "" {
		a.secret = []byte(cfg.AuthJWTSecret)
	}
	if pem := strings.TrimSpace(cfg.AuthJWTPublicKey); pem != "" {
		// env files often carry the PEM on one line
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(strings.ReplaceAll(pem, `\n`, "\n")))
		if err != nil {
			return nil, fmt.Errorf("parse AUTH_JWT_PUBLIC_KEY: %w", err)
		}
		a.publicKey = key
	}
	return a, nil
}

// Configured reports whether tokens can be verified.
func (a *Authenticator) Configured() bool {
	return len(a.secret) > 0 || a.publicKey != nil
}

// RequireAuth rejects requests without a valid session with a 401 envelope.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.identify(c)
		if err != nil || identity == nil || identity.Email == "" {
			if err != nil && !errors.Is(err, errNoToken) {
				a.logger.Debug("rejected session token: %v", err)
			}
			abortUnauthorized(c)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid session is present.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := a.identify(c); err == nil && identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by the auth middleware, or nil.
func IdentityFrom(c *gin.Context) *models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*models.Identity); ok {
			return identity
		}
	}
	return nil
}

// UserID returns the caller's email, the owner key of every stored course.
func UserID(c *gin.Context) string {
	if identity := IdentityFrom(c); identity != nil {
		return identity.Email
	}
	return ""
}

func (a *Authenticator) identify(c *gin.Context) (*models.Identity, error) {
	if !a.Configured() {
		if a.devHeader {
			if email := strings.TrimSpace(c.GetHeader(HeaderDevUser)); email != "" {
				return &models.Identity{Email: email}, nil
			}
		}
		return nil, errNoToken
	}

	token := extractToken(c)
	if token == "" {
		return nil, errNoToken
	}
	return a.parse(token)
}

func (a *Authenticator) parse(tokenString string) (*models.Identity, error) {
	methods := []string{}
	if len(a.secret) > 0 {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	if a.publicKey != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return a.secret, nil
		case *jwt.SigningMethodRSA:
			return a.publicKey, nil
		}
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	return &models.Identity{
		Email:     claimString(claims, "email"),
		Name:      claimString(claims, "name"),
		FirstName: claimString(claims, "given_name"),
		LastName:  claimString(claims, "family_name"),
		Username:  claimString(claims, "username"),
	}, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

func claimString(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIResponse{
		Success: false,
		Error:   &models.ErrorInfo{Code: "UNAUTHORIZED", Message: "Unauthorized"},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: c.GetString(RequestIDKey),
		},
	})
}
