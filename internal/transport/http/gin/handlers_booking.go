package httpgin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisrepo "github.com/kirinyoku/voyago/internal/repository/redis"
	"github.com/kirinyoku/voyago/internal/service"
	"github.com/kirinyoku/voyago/internal/service/booking"
)

// RateLimiter throttles checkout attempts per caller.
type RateLimiter interface {
	Allow(ctx context.Context, suffix string) (allowed bool, current int64, retryAfter time.Duration, err error)
}

// @Summary  Checkout: price the selection, hold seats, create a SOFT booking (idempotent)
// @Param    req  body  CheckoutRequest  true  "payload"
// @Header   201  {string}  Idempotency-Key  "echo"
// @Success  201  {object}  domain.BookingDetails
// @Failure  400  {object}  ErrorResponse  "no price / no seats / bad payload"
// @Failure  401  {object}  ErrorResponse
// @Failure  429  {object}  ErrorResponse  "rate limited"
// @Router   /api/bookings [post]
func handleCheckout(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter RateLimiter,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if limiter != nil {
			allowed, _, retryAfter, err := limiter.Allow(
				c.Request.Context(),
				"user:"+strconv.FormatInt(actor.UserID, 10),
			)
			// an unreachable limiter fails the request rather than waving
			// everyone through
			if err != nil {
				logger.Error("checkout rate limiter unavailable", "error", err)
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
				return
			}
			if !allowed {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many checkout attempts"})
				return
			}
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCheckout(actor.UserID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		d, err := svcs.Booking.Create(c.Request.Context(), actor, booking.CreateInput{
			PackageID:     req.PackageID,
			HotelID:       req.HotelID,
			HotelName:     req.HotelName,
			FlightBlockID: req.FlightBlockID,
			Adults:        req.Adults,
			Children:      req.Children,
			Nights:        req.Nights,
			RoomType:      req.RoomType,
			ContactName:   req.ContactName,
			ContactEmail:  req.ContactEmail,
			ContactPhone:  req.ContactPhone,
		})
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(d)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, d)
	}
}

// @Summary  Get a booking with line items
// @Param    code  path  string  true  "reservation code"
// @Success  200  {object}  domain.BookingDetails
// @Failure  403  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /api/bookings/{code} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
			return
		}

		d, err := svcs.Booking.GetByCode(c.Request.Context(), actor, c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, d)
	}
}

// @Summary  Confirm a SOFT booking
// @Param    code  path  string  true  "reservation code"
// @Success  200  {object}  domain.Booking
// @Failure  400  {object}  ErrorResponse  "wrong status"
// @Router   /api/bookings/{code}/confirm [post]
func handleConfirmBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
			return
		}

		b, err := svcs.Booking.Confirm(c.Request.Context(), actor, c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Cancel a booking and release held seats
// @Param    code  path  string  true  "reservation code"
// @Success  200  {object}  domain.Booking
// @Failure  400  {object}  ErrorResponse  "wrong status"
// @Router   /api/bookings/{code}/cancel [post]
func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
			return
		}

		b, err := svcs.Booking.Cancel(c.Request.Context(), actor, c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Change the caller's password
// @Param    req  body  ChangePasswordRequest  true  "payload"
// @Success  200  {object}  StatusResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /api/users/change-password [post]
func handleChangePassword(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		err := svcs.Users.ChangePassword(c.Request.Context(), actor.UserID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	}
}

// --- Agent back office ---

// @Summary  Look up a booking by reservation code
// @Param    code  query  string  true  "reservation code"
// @Success  200  {object}  domain.Booking
// @Failure  404  {object}  ErrorResponse
// @Router   /api/agent/bookings/search [get]
func handleSearchBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Query("code"))
		if code == "" {
			badRequest(c, "code is required")
			return
		}

		b, err := svcs.Booking.SearchByCode(c.Request.Context(), code)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, b)
	}
}

// @Summary  List CONFIRMED bookings awaiting payment, oldest first
// @Success  200  {array}  domain.Booking
// @Router   /api/agent/payments/pending [get]
func handlePendingPayments(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Booking.PendingPayments(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Mark a CONFIRMED booking as PAID
// @Param    code  path  string  true  "reservation code"
// @Success  200  {object}  domain.Booking
// @Failure  400  {object}  ErrorResponse  "wrong status"
// @Router   /api/agent/bookings/{code}/paid [post]
func handleMarkPaid(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
			return
		}

		b, err := svcs.Booking.MarkPaid(c.Request.Context(), actor, c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, b)
	}
}
