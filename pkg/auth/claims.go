package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AgentClaims is the claim set the backend mints into agent access tokens.
// The engine only relies on the `id` claim; everything else rides along for
// diagnostics.
type AgentClaims struct {
	ID       string `json:"id"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}
