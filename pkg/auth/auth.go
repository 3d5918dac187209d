package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// JWTKey is set once at startup from config before the server accepts traffic.
var JWTKey []byte

type Profile struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

type ctxKey int

const (
	userNameKey ctxKey = iota
	userRoleKey
)

func SetAuthContext(ctx context.Context, username string, role Role) context.Context {
	ctx = context.WithValue(ctx, userNameKey, username)
	return context.WithValue(ctx, userRoleKey, role)
}

func Username(ctx context.Context) (string, error) {
	name, ok := ctx.Value(userNameKey).(string)
	if !ok || name == "" {
		return "", errors.New("username is missing in context")
	}
	return name, nil
}

func UserRole(ctx context.Context) (Role, error) {
	role, ok := ctx.Value(userRoleKey).(Role)
	if !ok || role == "" {
		return "", errors.New("role is missing in context")
	}
	return role, nil
}
