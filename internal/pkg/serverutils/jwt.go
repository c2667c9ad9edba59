package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// VerifyToken checks an HS256 token and returns its claims.
func VerifyToken(secret, tokenStr string) (jwt.MapClaims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: missing", ErrInvalidToken)
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: claims", ErrInvalidToken)
	}
	return claims, nil
}

// HandshakeAuth guards the session upgrade. An empty secret disables the
// check. The token may come from ?token= or an Authorization bearer header,
// since browsers cannot set headers on a WebSocket upgrade.
func HandshakeAuth(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return ctx.Next()
		}
		tokenStr := ctx.Query("token")
		if tokenStr == "" {
			tokenStr = strings.TrimPrefix(ctx.Get("Authorization"), "Bearer ")
		}

		claims, err := VerifyToken(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
		if sub, _ := claims.GetSubject(); sub != "" {
			ctx.Locals("user_id", sub)
		} else if uid, ok := claims["user_id"]; ok {
			ctx.Locals("user_id", uid)
		}
		return ctx.Next()
	}
}
