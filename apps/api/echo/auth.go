package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schoolinsights/core/auth"
)

var (
	contextTokenKey    = "userToken"
	contextSessionKey  = "session"
	contextIdentityKey = "identity"
)

// Claims represents the authorization claims transmitted via a JWT.
// StandardClaims.Id holds the session id: a token is only valid while its session is logged in.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	ScopeKey string `json:"scope_key,omitempty"`
}

// tokenIssuer signs the tokens of new sessions.
type tokenIssuer struct {
	appName         string
	secretKey       []byte
	expirationDelta time.Duration // 0: no expiry
}

// newJWTConfig returns the JWT auth middleware config.
func newJWTConfig(secretKey []byte) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    secretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func (ti tokenIssuer) claims(sid string, id auth.Identity) *Claims {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:       sid,
			Issuer:   ti.appName,
			Subject:  id.Username,
			IssuedAt: now.Unix(),
		},
		Username: id.Username,
		Role:     string(id.Role),
		ScopeKey: id.ScopeKey.String,
	}
	if ti.expirationDelta > 0 {
		claims.ExpiresAt = now.Add(ti.expirationDelta).Unix()
	}
	return claims
}

// generateToken generates a signed JWT token string representing the Claims.
func (ti tokenIssuer) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(ti.secretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// identityFromClaims rebuilds the Identity of a token, for logging only:
// handlers use the Identity of the session.
func identityFromClaims(claims Claims) auth.Identity {
	id := auth.Identity{Username: claims.Username, Role: auth.Role(claims.Role)}
	if claims.ScopeKey != "" {
		id.ScopeKey = null.StringFrom(claims.ScopeKey)
	}
	return id
}

func getContextIdentity(ctx echo.Context) (auth.Identity, error) {
	if id, ok := ctx.Get(contextIdentityKey).(auth.Identity); ok {
		return id, nil
	}
	return auth.Identity{}, errUnauthorized
}

// sessionMiddleware rejects the tokens whose session was logged out (or never existed in this process)
// and puts the session Identity in the context. It must run after the JWT middleware.
func sessionMiddleware(sessions *auth.SessionRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			sess, ok := sessions.Get(claims.Id)
			if !ok {
				return errSessionClosed
			}
			id, ok := sess.Identity()
			if !ok {
				return errSessionClosed
			}
			ctx.Set(contextSessionKey, claims.Id)
			ctx.Set(contextIdentityKey, id)
			return next(ctx)
		}
	}
}
