package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the JWT claims structure issued by the auth provider.
// Only the subject (user id) and role are consumed by this service.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user id from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
