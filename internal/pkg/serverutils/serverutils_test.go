package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifyToken(t *testing.T) {
	good := signed(t, "s3cret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
	claims, err := VerifyToken("s3cret", good)
	require.NoError(t, err)
	sub, _ := claims.GetSubject()
	assert.Equal(t, "user-1", sub)

	_, err = VerifyToken("other", good)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := signed(t, "s3cret", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = VerifyToken("s3cret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = VerifyToken("s3cret", "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHandshakeAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/ws", HandshakeAuth("s3cret"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	open := fiber.New()
	open.Get("/ws", HandshakeAuth(""), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	tok := signed(t, "s3cret", jwt.MapClaims{"sub": "user-7"})
	resp, err = app.Test(httptest.NewRequest("GET", "/ws?token="+tok, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = open.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type guideRequest struct {
		Pattern  string `validate:"required"`
		Duration int    `validate:"gte=0,lte=3600"`
	}
	assert.NoError(t, ValidateRequest(guideRequest{Pattern: "box", Duration: 60}))

	err := ValidateRequest(guideRequest{Duration: 7200})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern is required")
	assert.Contains(t, err.Error(), "duration must satisfy lte=3600")
}

func TestResponses(t *testing.T) {
	ok := SuccessResponse("done", []string{"a"})
	assert.True(t, ok.Success)
	assert.Equal(t, 200, ok.Code)

	e := ErrorResponse(404, "missing")
	assert.False(t, e.Success)
	assert.Nil(t, e.Data)
}
