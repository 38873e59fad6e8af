package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// JWT claim names
const (
	jwtClaimSubject = "sub"
	jwtClaimRole    = "role"
)

var ErrNoClaims = errors.New("user claims not found in context or invalid type")

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	role, ok := claims[jwtClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid '%s' claim in token", jwtClaimRole)
	}
	return role, nil
}

func GetUsernameFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	name, ok := claims[jwtClaimSubject].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid '%s' claim in token", jwtClaimSubject)
	}
	return name, nil
}

// IsAdmin reports whether the request carries admin claims.
func IsAdmin(ctx context.Context) bool {
	role, err := GetUserRoleFromContext(ctx)
	return err == nil && role == RoleAdmin
}
