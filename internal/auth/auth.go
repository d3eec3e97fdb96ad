package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/frahmantamala/user-backoffice/internal"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents access token claims for administrative requests.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenValidator checks upstream-issued access tokens. Issuing those tokens
// is out of scope for the back-office; it only consumes them to attach an
// actor to the request.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// ActorRepository loads the administrative identity bound to validated claims.
type ActorRepository interface {
	GetActorByID(userID int64) (*internal.Actor, error)
}

type JWTTokenValidator struct {
	Secret []byte
}

func NewJWTTokenValidator(secret string) *JWTTokenValidator {
	return &JWTTokenValidator{Secret: []byte(secret)}
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

func (j *JWTTokenValidator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateToken signs an access token with the same claim shape the
// validator expects; used by tests and local tooling.
func GenerateToken(secret string, userID int64, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: strconv.FormatInt(userID, 10),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
