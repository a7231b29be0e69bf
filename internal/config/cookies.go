package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	authCookie = "auth"
	signCookie = "sign"
)

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

type PlayerClaims struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewPlayerClaims(playerID int64, username string, lifetime time.Duration) *PlayerClaims {
	now := time.Now()
	return &PlayerClaims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func NewCookies(j *JWT) *Cookies {
	return &Cookies{
		Domain:   envOr("COOKIES_DOMAIN", ""),
		Secure:   envBool("COOKIES_SECURE"),
		SameSite: parseSameSite(envOr("COOKIES_SAMESITE", "STRICT")),
		jwt:      j,
	}
}

func (c *Cookies) cookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, ck := range []*http.Cookie{
		c.cookie(authCookie, "delete", false),
		c.cookie(signCookie, "delete", true),
	} {
		ck.MaxAge = -1
		http.SetCookie(w, ck)
	}
}

// Refresh signs claims and splits the token between a readable auth cookie
// (header and payload) and an HttpOnly sign cookie (signature).
func (c *Cookies) Refresh(w http.ResponseWriter, claims *PlayerClaims) error {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(c.jwt.Lifetime()))
	token, err := c.jwt.Sign(claims)
	if err != nil {
		return err
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]

	expires := time.Now().Add(c.jwt.Lifetime())
	for _, ck := range []*http.Cookie{
		c.cookie(authCookie, header+"."+payload, false),
		c.cookie(signCookie, signature, true),
	} {
		ck.Expires = expires
		http.SetCookie(w, ck)
	}
	return nil
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(auth.Value+"."+sign.Value, &PlayerClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
