package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	redisrepo "github.com/kirinyoku/voyago/internal/repository/redis"
	"github.com/kirinyoku/voyago/internal/service"
	"github.com/kirinyoku/voyago/internal/service/admin"
	"github.com/kirinyoku/voyago/internal/service/booking"
	"github.com/kirinyoku/voyago/internal/service/catalog"
	"github.com/kirinyoku/voyago/internal/service/users"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/voyago/internal/domain"
)

func NewRouter(
	svcs *service.Services,
	sessions SessionReader,
	idem *redisrepo.IdempotencyStore,
	limiter RateLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog
	api := r.Group("/api")
	{
		api.GET("/cities", handleListCities(svcs))
		api.GET("/countries", handleListCountries(svcs))
		api.GET("/excursions", handleListExcursions(svcs))

		api.GET("/public/destinations", handleListDestinations(svcs))
		api.GET("/public/hotels", handleListHotels(svcs))
		api.GET("/public/packages", handleListPackages(svcs))
		api.GET("/public/packages/:id", handleGetPackage(svcs))
		api.GET("/public/packages/:id/quote", handleQuotePackage(svcs))

		// the search form posts JSON; GET with query params serves deep links
		api.GET("/hotels/search", handleSearchHotels(svcs))
		api.POST("/hotels/search", handleSearchHotels(svcs))
	}

	// Booking lifecycle: any authenticated user
	authed := api.Group("", Authenticate(sessions))
	{
		authed.POST("/bookings", handleCheckout(svcs, idem, limiter, logger))
		authed.GET("/bookings/:code", handleGetBooking(svcs))
		authed.POST("/bookings/:code/confirm", handleConfirmBooking(svcs))
		authed.POST("/bookings/:code/cancel", handleCancelBooking(svcs))

		authed.POST("/users/change-password", handleChangePassword(svcs))
	}

	// Agent back office
	agent := api.Group("/agent", Authenticate(sessions), RequireRoles(domain.RoleAgent, domain.RoleAdmin))
	{
		agent.GET("/bookings/search", handleSearchBooking(svcs))
		agent.GET("/payments/pending", handlePendingPayments(svcs))
		agent.POST("/bookings/:code/paid", handleMarkPaid(svcs))
	}

	// Admin catalog management
	adm := api.Group("/admin", Authenticate(sessions), RequireRoles(domain.RoleAdmin))
	{
		adm.GET("/hotels/generate-id", handleGenerateHotelID(svcs))

		adm.POST("/countries", handleCreateCountry(svcs))
		adm.PUT("/countries/:id", handleUpdateCountry(svcs))

		adm.POST("/cities", handleCreateCity(svcs))
		adm.PUT("/cities/:id", handleUpdateCity(svcs))
		adm.DELETE("/cities/:id", handleDeleteCity(svcs))

		adm.POST("/hotels", handleCreateHotel(svcs))
		adm.PUT("/hotels/:id", handleUpdateHotel(svcs))
		adm.DELETE("/hotels/:id", handleDeleteHotel(svcs))

		adm.POST("/flights/templates", handleCreateFlightTemplate(svcs))
		adm.POST("/flights/blocks", handleCreateBlockPair(svcs))
		adm.PUT("/flights/:id", handleUpdateFlight(svcs))
		adm.DELETE("/flights/:id", handleDeleteFlight(svcs))
	}

	return r
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondErr maps service sentinel errors to the client-facing taxonomy.
// Every state conflict the user can repair (wrong status, taken name, no
// seats) is a 400 with a friendly message; only unknown errors fall
// through to the 500 catch-all.
func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not allowed"})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking status does not allow this action"})
	case errors.Is(err, booking.ErrPriceNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no price for the selected combination"})
	case errors.Is(err, booking.ErrBlockNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "flight block not found"})
	case errors.Is(err, booking.ErrSeatsUnavailable):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "not enough seats left on the selected flights"})

	// catalog service
	case errors.Is(err, catalog.ErrPackageNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "package not found"})

	// admin service
	case errors.Is(err, admin.ErrCountryConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a country with this name already exists"})
	case errors.Is(err, admin.ErrCityConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a city with this slug already exists"})
	case errors.Is(err, admin.ErrHotelConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a hotel with this id or name already exists"})
	case errors.Is(err, admin.ErrFlightConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "flight conflict"})
	case errors.Is(err, admin.ErrInvalidHotelID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "hotel id must be a 5-digit number"})
	case errors.Is(err, admin.ErrInvalidBlock):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "both block legs need a positive seat count"})
	case errors.Is(err, admin.ErrTemplateWithSeats):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "flight templates carry no seats"})
	case errors.Is(err, admin.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, admin.ErrIDSpaceExhausted):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not allocate a free hotel id, retry later"})

	// users service
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, users.ErrWrongPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "current password does not match"})
	case errors.Is(err, users.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password must be at least 8 characters"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
