package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	signingMethod jwt.SigningMethod
	signKey       any
	verifyKey     any
	tokenLifetime time.Duration
}

// NewJWT signs with HS256 when JWT_SECRET is set and with RS256 keys
// (JWT_PRIVATE_KEY[_FILE], JWT_PUBLIC_KEY[_FILE]) otherwise.
func NewJWT() (*JWT, error) {
	lifetime, err := envDuration("JWT_LIFETIME", time.Hour*24*30)
	if err != nil {
		return nil, err
	}

	if secret, ok := os.LookupEnv("JWT_SECRET"); ok && secret != "" {
		return NewHMACJWT([]byte(secret), lifetime), nil
	}

	privateKey, err := loadPrivateKey()
	if err != nil {
		return nil, err
	}
	publicKey, err := loadPublicKey()
	if err != nil {
		return nil, err
	}

	j := &JWT{
		signingMethod: jwt.SigningMethodRS256,
		signKey:       privateKey,
		verifyKey:     publicKey,
		tokenLifetime: lifetime,
	}

	return j, nil
}

func NewHMACJWT(secret []byte, lifetime time.Duration) *JWT {
	return &JWT{
		signingMethod: jwt.SigningMethodHS256,
		signKey:       secret,
		verifyKey:     secret,
		tokenLifetime: lifetime,
	}
}

func loadPrivateKey() (*rsa.PrivateKey, error) {
	pem, err := readSecret("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(pem)
}

func loadPublicKey() (*rsa.PublicKey, error) {
	pem, err := readSecret("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(pem)
}

func (j *JWT) Lifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.signKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != j.signingMethod.Alg() {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return j.verifyKey, nil
		},
	)
}
