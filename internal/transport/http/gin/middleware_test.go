package httpgin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/service/admin"
	"github.com/kirinyoku/voyago/internal/service/booking"
	"github.com/stretchr/testify/assert"
)

type fakeSessions struct {
	actors map[string]domain.Actor
}

func (f *fakeSessions) Get(_ context.Context, token string) (*domain.Actor, error) {
	if a, ok := f.actors[token]; ok {
		return &a, nil
	}
	return nil, ErrFakeSession
}

var ErrFakeSession = assert.AnError

func newAuthTestRouter(sessions SessionReader, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{Authenticate(sessions)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		actor, _ := actorFrom(c)
		c.JSON(http.StatusOK, actor)
	})

	r.GET("/protected", handlers...)
	return r
}

func TestAuthenticate(t *testing.T) {
	sessions := &fakeSessions{actors: map[string]domain.Actor{
		"tok-user": {UserID: 7, Role: domain.RoleUser},
	}}
	r := newAuthTestRouter(sessions)

	testCases := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Authorization", value: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "bearer token", header: "Authorization", value: "Bearer tok-user", wantStatus: http.StatusOK},
		{name: "session header", header: "X-Session-Token", value: "tok-user", wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), "error")
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	sessions := &fakeSessions{actors: map[string]domain.Actor{
		"tok-user":  {UserID: 7, Role: domain.RoleUser},
		"tok-agent": {UserID: 8, Role: domain.RoleAgent},
		"tok-admin": {UserID: 9, Role: domain.RoleAdmin},
	}}
	r := newAuthTestRouter(sessions, domain.RoleAgent, domain.RoleAdmin)

	testCases := []struct {
		token      string
		wantStatus int
	}{
		{token: "tok-user", wantStatus: http.StatusForbidden},
		{token: "tok-agent", wantStatus: http.StatusOK},
		{token: "tok-admin", wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("X-Session-Token", tc.token)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestRespondErr_Taxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "booking not found", err: booking.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", err: booking.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "invalid transition", err: booking.ErrInvalidTransition, wantStatus: http.StatusBadRequest},
		{name: "price not found", err: booking.ErrPriceNotFound, wantStatus: http.StatusBadRequest},
		{name: "seats unavailable", err: booking.ErrSeatsUnavailable, wantStatus: http.StatusBadRequest},
		{name: "hotel conflict", err: admin.ErrHotelConflict, wantStatus: http.StatusBadRequest},
		{name: "city conflict", err: admin.ErrCityConflict, wantStatus: http.StatusBadRequest},
		{name: "admin not found", err: admin.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "id space exhausted", err: admin.ErrIDSpaceExhausted, wantStatus: http.StatusInternalServerError},
		{name: "unknown error", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondErr(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
