package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
)

var (
	appName            string
	secretKey          []byte
	jwtExpirationDelta time.Duration

	jwtContextKey = "sessionToken"
	signingMethod = middleware.AlgorithmHS256
)

// Claims is the mini-app session token contents: the session id and the
// resolved identity.
type Claims struct {
	jwt.StandardClaims
	SessionID string `json:"sid,omitempty"`
	FIO       string `json:"fio,omitempty"`
}

// ConfigureAuth primes the JWT settings and returns the auth middleware.
func ConfigureAuth(name string, key []byte, expirationDelta time.Duration) echo.MiddlewareFunc {
	appName = name
	secretKey = key
	jwtExpirationDelta = expirationDelta
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    secretKey,
		SigningMethod: signingMethod,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	})
}

// GetSessionClaims builds the claims issued after a successful identity
// resolution.
func GetSessionClaims(sessionID, fio string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   fio,
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		SessionID: sessionID,
		FIO:       fio,
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(signingMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(secretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
