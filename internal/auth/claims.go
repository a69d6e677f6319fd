package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of a JWT the client shows to the user.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt *time.Time
}

// ParseClaims decodes token without verifying its signature. The client
// cannot verify it and only uses the claims for display.
func ParseClaims(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	out := &Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := mc["email"].(string); ok {
		out.Email = email
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	return out, nil
}

// Expired reports whether c carries an exp claim in the past.
func (c *Claims) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
