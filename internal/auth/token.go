// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const issuer = "printfarmhq"

// Claims is the verified payload of a bearer token.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the user and returns it with its expiry.
func (t *TokenIssuer) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	exp := time.Now().Add(t.ttl)
	claims := map[string]any{
		"sub":   userID.String(),
		"email": email,
		"exp":   exp.Unix(),
		"iat":   time.Now().Unix(),
		"iss":   issuer,
	}
	b, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	pay := base64.RawURLEncoding.EncodeToString(b)
	unsigned := head + "." + pay
	h := hmac.New(sha256.New, t.secret)
	h.Write([]byte(unsigned))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, exp, nil
}

// Verify checks signature, issuer and expiry and returns the claims.
func (t *TokenIssuer) Verify(tok string) (Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("token format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Claims{}, fmt.Errorf("token signature encoding")
	}
	h := hmac.New(sha256.New, t.secret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return Claims{}, fmt.Errorf("token signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("token payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return Claims{}, fmt.Errorf("token payload json")
	}
	iss, _ := m["iss"].(string)
	sub, _ := m["sub"].(string)
	email, _ := m["email"].(string)
	expF, _ := m["exp"].(float64)
	if iss != issuer || sub == "" {
		return Claims{}, fmt.Errorf("token claims")
	}
	if time.Now().Unix() > int64(expF) {
		return Claims{}, fmt.Errorf("token expired")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, fmt.Errorf("token subject")
	}
	return Claims{UserID: id, Email: email}, nil
}
