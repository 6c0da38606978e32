package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking-engine/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authorization string, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTAuth(t *testing.T) {
	mw := JWTAuth(testSecret)

	t.Run("valid token passes claims into the context", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 15)
		require.NoError(t, err)
		rec, c := runJWT(t, "Bearer "+tok.Token, mw)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(42), c.Get("user_id"))
		assert.Equal(t, "CUSTOMER", c.Get("role"))
	})
	t.Run("missing header", func(t *testing.T) {
		rec, _ := runJWT(t, "", mw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("wrong secret", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 42, "CUSTOMER", 15)
		require.NoError(t, err)
		rec, _ := runJWT(t, "Bearer "+tok.Token, mw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("expired token", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", -5)
		require.NoError(t, err)
		rec, _ := runJWT(t, "Bearer "+tok.Token, mw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("garbage token", func(t *testing.T) {
		rec, _ := runJWT(t, "Bearer not.a.jwt", mw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("ADMIN")
	run := func(role interface{}) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		require.NoError(t, handler(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run("ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, run("CUSTOMER").Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run(123).Code)
}
