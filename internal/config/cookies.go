package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoTicket = errors.New("no controller ticket")

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

// TicketClaims grant control over one maze session.
type TicketClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

func NewTicketClaims(sessionID string, lifetime time.Duration) *TicketClaims {
	now := time.Now()
	return &TicketClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
}

func NewCookies(j *JWT) (*Cookies, error) {
	domain := os.Getenv("COOKIES_DOMAIN")

	secure := !Development()
	if secureStr, ok := os.LookupEnv("COOKIES_SECURE"); ok {
		secure = secureStr != "0"
	}

	sameSite := http.SameSiteLaxMode
	if sameSiteStr, ok := os.LookupEnv("COOKIES_SAMESITE"); ok {
		switch strings.ToUpper(sameSiteStr) {
		case "DEFAULT":
			sameSite = http.SameSiteDefaultMode
		case "LAX":
			sameSite = http.SameSiteLaxMode
		case "STRICT":
			sameSite = http.SameSiteStrictMode
		case "NONE":
			sameSite = http.SameSiteNoneMode
		default:
			return nil, fmt.Errorf("invalid COOKIES_SAMESITE value %q", sameSiteStr)
		}
	}

	cookies := &Cookies{
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		jwt:      j,
	}

	return cookies, nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth",
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "sign",
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]
	expires := time.Now().Add(c.jwt.tokenLifetime)
	http.SetCookie(w, &http.Cookie{
		Name:     "auth",
		Path:     "/",
		Value:    header + "." + payload,
		Expires:  expires,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "sign",
		Path:     "/",
		Value:    signature,
		Expires:  expires,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	return nil
}

// Issue signs a ticket for sessionID, stores it in the cookies and returns
// the full token for clients that prefer the Authorization header.
func (c *Cookies) Issue(w http.ResponseWriter, sessionID string) (string, error) {
	token, err := c.jwt.Sign(NewTicketClaims(sessionID, c.jwt.tokenLifetime))
	if err != nil {
		return "", fmt.Errorf("unable to sign ticket: %w", err)
	}
	if err := c.Refresh(w, token); err != nil {
		return "", err
	}
	return token, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// ParseTicketClaims reads the ticket from the Authorization header or, when
// there is none, from the auth and sign cookies.
func (c *Cookies) ParseTicketClaims(r *http.Request) (*TicketClaims, error) {
	tokenString, ok := bearerToken(r)
	if !ok {
		authCookie, err := r.Cookie("auth")
		if err != nil {
			return nil, ErrNoTicket
		}
		signCookie, err := r.Cookie("sign")
		if err != nil {
			return nil, ErrNoTicket
		}
		tokenString = authCookie.Value + "." + signCookie.Value
	}
	token, err := c.jwt.ParseWithClaims(tokenString, &TicketClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*TicketClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
