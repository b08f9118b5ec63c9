package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
)

var ErrExpired = errors.New("token is expired")

type Engine interface {
	// Generate signs a token carrying obj which expires after the given
	// duration.
	Generate(expiration time.Duration, obj any) (string, error)

	// Verify checks the signature and the expiration of token, then decodes
	// the carried object into obj. The obj parameter must be a pointer.
	Verify(token string, obj any) error
}

type claims struct {
	jwt.RegisteredClaims
	Object any `json:"obj"`
}

type jwtEngine struct {
	issuer string
	secret []byte
}

func NewEngine(issuer, secret string) *jwtEngine {
	return &jwtEngine{issuer: issuer, secret: []byte(secret)}
}

func (e *jwtEngine) Generate(expiration time.Duration, obj any) (string, error) {
	now := time.Now()
	c := claims{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(e.secret)
}

func (e *jwtEngine) Verify(token string, obj any) error {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return e.secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return ErrExpired
		}

		return err
	}

	if c.Issuer != e.issuer {
		return fmt.Errorf("invalid issuer %q", c.Issuer)
	}

	return mapstructure.Decode(c.Object, obj)
}
