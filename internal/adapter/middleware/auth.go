package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"eduloan-backend/pkg/id"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	RoleStudent    = "student"
	RoleNBFC       = "nbfc"
	RoleAdmin      = "admin"
	RoleConsultant = "consultant"
)

const actorCtxKey = "auth.actor"

// Actor is the authenticated caller taken from the bearer token.
type Actor struct {
	ID   string
	Role string
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errBadToken = errors.New("invalid token")

func validRole(r string) bool {
	switch r {
	case RoleStudent, RoleNBFC, RoleAdmin, RoleConsultant:
		return true
	}
	return false
}

func parseToken(secret []byte, raw string) (Actor, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return Actor{}, errBadToken
	}
	if !id.Valid(claims.Subject) || !validRole(claims.Role) {
		return Actor{}, errBadToken
	}
	return Actor{ID: claims.Subject, Role: claims.Role}, nil
}

// Authenticate verifies an HS256 bearer token and stores the Actor on the context.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "missing bearer token"})
			}
			actor, err := parseToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "invalid or expired token"})
			}
			c.Set(actorCtxKey, actor)
			return next(c)
		}
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "authentication required"})
			}
			for _, r := range roles {
				if actor.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]any{"success": false, "error": "access denied for role " + actor.Role})
		}
	}
}

func ActorFrom(c echo.Context) (Actor, bool) {
	a, ok := c.Get(actorCtxKey).(Actor)
	return a, ok
}

// SignToken issues an HS256 token for the given actor. Used by tests and
// local tooling; production tokens come from the auth service.
func SignToken(secret []byte, actor Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
