package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking-engine/internal/model"
)

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{model.ErrShowtimeNotFound, http.StatusNotFound},
		{model.ErrBookingNotFound, http.StatusNotFound},
		{model.ErrInvalidSeats, http.StatusBadRequest},
		{model.ErrInvalidStatus, http.StatusBadRequest},
		{model.ErrSeatConflict, http.StatusConflict},
		{model.ErrInvalidTransition, http.StatusConflict},
		{model.ErrShowtimeCanceled, http.StatusConflict},
		{model.ErrBookingPaid, http.StatusConflict},
		{model.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("driver: bad connection"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", model.ErrSeatConflict), http.StatusConflict},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			require.NoError(t, writeDomainError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	ctx := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	for _, v := range []interface{}{uint64(7), int(7), int64(7), float64(7), "7"} {
		got, err := getUserID(ctx(v))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), got)
	}

	_, err := getUserID(ctx(nil))
	assert.Error(t, err)
	_, err = getUserID(ctx("not-a-number"))
	assert.Error(t, err)
}
