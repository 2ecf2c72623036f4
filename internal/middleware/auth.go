package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

var errMissingToken = errors.New("missing bearer token")

// Auth verifies HS256 bearer tokens and stores the subject under "user_id".
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Optional lets guests through. A token that is present but invalid is
// still rejected.
func (a *Auth) Optional() echo.MiddlewareFunc {
	return a.handle(false)
}

func (a *Auth) Required() echo.MiddlewareFunc {
	return a.handle(true)
}

func (a *Auth) handle(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, err := a.subject(c.Request())
			if errors.Is(err, errMissingToken) && !required {
				return next(c)
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{
					"error": "unauthorized",
				})
			}

			c.Set(userIDKey, subject)
			return next(c)
		}
	}
}

func (a *Auth) subject(r *http.Request) (string, error) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errMissingToken
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", errors.New("malformed authorization header")
	}
	if len(a.secret) == 0 {
		return "", errors.New("token verification is not configured")
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

// UserID returns the verified caller, or false for guests.
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(userIDKey).(string)
	return id, ok && id != ""
}
