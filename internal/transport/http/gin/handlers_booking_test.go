package httpgin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, int64, time.Duration, error) {
	return f.allowed, 0, f.retryAfter, f.err
}

const checkoutBody = `{
	"package_id": 1, "hotel_id": 10001, "hotel_name": "Aurora",
	"flight_block_id": "blk-1", "adults": 2, "children": 0, "nights": 7,
	"contact_name": "Ada", "contact_email": "ada@example.com"
}`

func newCheckoutTestRouter(limiter RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := &fakeSessions{actors: map[string]domain.Actor{
		"tok-user": {UserID: 7, Role: domain.RoleUser},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	// the limiter decision short-circuits before any service is touched
	r.POST("/bookings", Authenticate(sessions), handleCheckout(nil, nil, limiter, logger))
	return r
}

func TestHandleCheckout_RateLimiter(t *testing.T) {
	testCases := []struct {
		name       string
		limiter    *fakeLimiter
		wantStatus int
		wantRetry  string
	}{
		{
			name:       "over the limit",
			limiter:    &fakeLimiter{allowed: false, retryAfter: 4 * time.Second},
			wantStatus: http.StatusTooManyRequests,
			wantRetry:  "5",
		},
		{
			// a broken limiter must not wave requests through
			name:       "limiter unavailable",
			limiter:    &fakeLimiter{allowed: true, err: assert.AnError},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newCheckoutTestRouter(tc.limiter)

			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(checkoutBody))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Session-Token", "tok-user")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantRetry, w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
