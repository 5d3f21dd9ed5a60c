package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetbackend/internal/domain"

	"github.com/gin-gonic/gin"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondDomainError(c, err)
	return w.Code
}

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}, http.StatusBadRequest},
		{domain.UnauthorizedError{Msg: "invalid webhook signature"}, http.StatusUnauthorized},
		{domain.NotFoundError{Resource: "payment transaction"}, http.StatusNotFound},
		{domain.ConflictError{Resource: "vendor", Msg: "email already registered"}, http.StatusConflict},
		{domain.GatewayError{Op: "token refresh", Attempts: 3, Err: errors.New("timeout")}, http.StatusBadGateway},
		{domain.PartialFailureError{Op: "initiate payment", External: "payment link zp-9", Err: errors.New("insert failed")}, http.StatusInternalServerError},
		{errors.New("boring failure"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(t, tc.err); got != tc.want {
			t.Fatalf("%T mapped to %d, want %d", tc.err, got, tc.want)
		}
	}
}
