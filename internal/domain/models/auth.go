package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims are the JWT claims issued by the hosted auth provider for
// admin-panel users. Role must be "authenticated" for access.
type AdminClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}
