package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims carries the authenticated actor through the request context.
// Mutating service calls receive the actor explicitly; nothing below the
// handler layer reads ambient session state.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
