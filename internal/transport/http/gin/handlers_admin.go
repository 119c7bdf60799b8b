package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/service"
)

// @Summary  Allocate a fresh unique 5-digit hotel id
// @Success  200  {object}  GenerateIDResponse
// @Failure  500  {object}  ErrorResponse  "id space exhausted"
// @Router   /api/admin/hotels/generate-id [get]
func handleGenerateHotelID(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := svcs.Admin.AllocateHotelID(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, GenerateIDResponse{ID: id})
	}
}

// @Summary  Create country
// @Param    req  body  CountryRequest  true  "payload"
// @Success  201  {object}  CreatedResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /api/admin/countries [post]
func handleCreateCountry(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CountryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		country := domain.Country{
			Name:   req.Name,
			Code:   req.Code,
			Active: boolOrDefault(req.Active, true),
		}

		if err := svcs.Admin.CreateCountry(c.Request.Context(), &country); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatedResponse{ID: country.ID})
	}
}

// @Summary  Update country
// @Param    id   path  int             true  "Country ID"
// @Param    req  body  CountryRequest  true  "payload"
// @Success  200  {object}  CreatedResponse
// @Router   /api/admin/countries/{id} [put]
func handleUpdateCountry(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req CountryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		country := domain.Country{
			ID:     id,
			Name:   req.Name,
			Code:   req.Code,
			Active: boolOrDefault(req.Active, true),
		}

		if err := svcs.Admin.UpdateCountry(c.Request.Context(), &country); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, CreatedResponse{ID: country.ID})
	}
}

// @Summary  Create city
// @Param    req  body  CityRequest  true  "payload"
// @Success  201  {object}  CreatedResponse
// @Router   /api/admin/cities [post]
func handleCreateCity(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		city := domain.City{
			CountryID: req.CountryID,
			Name:      req.Name,
			Slug:      req.Slug,
			Popular:   req.Popular,
			Active:    boolOrDefault(req.Active, true),
		}

		if err := svcs.Admin.CreateCity(c.Request.Context(), &city); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatedResponse{ID: city.ID})
	}
}

// @Summary  Update city
// @Param    id   path  int          true  "City ID"
// @Param    req  body  CityRequest  true  "payload"
// @Success  200  {object}  CreatedResponse
// @Router   /api/admin/cities/{id} [put]
func handleUpdateCity(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req CityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		city := domain.City{
			ID:        id,
			CountryID: req.CountryID,
			Name:      req.Name,
			Slug:      req.Slug,
			Popular:   req.Popular,
			Active:    boolOrDefault(req.Active, true),
		}

		if err := svcs.Admin.UpdateCity(c.Request.Context(), &city); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, CreatedResponse{ID: city.ID})
	}
}

// @Summary  Delete city
// @Param    id  path  int  true  "City ID"
// @Success  200  {object}  StatusResponse
// @Router   /api/admin/cities/{id} [delete]
func handleDeleteCity(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		if err := svcs.Admin.DeleteCity(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
	}
}

// @Summary  Create hotel with a previously allocated id
// @Param    req  body  HotelRequest  true  "payload"
// @Success  201  {object}  CreatedResponse
// @Failure  400  {object}  ErrorResponse  "id outside the 5-digit range or taken"
// @Router   /api/admin/hotels [post]
func handleCreateHotel(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req HotelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		hotel := hotelFromRequest(req, req.ID)

		if err := svcs.Admin.CreateHotel(c.Request.Context(), &hotel); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatedResponse{ID: hotel.ID})
	}
}

// @Summary  Update hotel
// @Param    id   path  int           true  "Hotel ID"
// @Param    req  body  HotelRequest  true  "payload"
// @Success  200  {object}  CreatedResponse
// @Router   /api/admin/hotels/{id} [put]
func handleUpdateHotel(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req HotelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		hotel := hotelFromRequest(req, id)

		if err := svcs.Admin.UpdateHotel(c.Request.Context(), &hotel); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, CreatedResponse{ID: hotel.ID})
	}
}

// @Summary  Delete hotel
// @Param    id  path  int  true  "Hotel ID"
// @Success  200  {object}  StatusResponse
// @Router   /api/admin/hotels/{id} [delete]
func handleDeleteHotel(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		if err := svcs.Admin.DeleteHotel(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
	}
}

// @Summary  Create a reusable flight template
// @Param    req  body  FlightTemplateRequest  true  "payload"
// @Success  201  {object}  CreatedResponse
// @Router   /api/admin/flights/templates [post]
func handleCreateFlightTemplate(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FlightTemplateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		f := domain.Flight{
			DepartureAirportID: req.DepartureAirportID,
			ArrivalAirportID:   req.ArrivalAirportID,
		}

		if err := svcs.Admin.CreateFlightTemplate(c.Request.Context(), &f); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatedResponse{ID: f.ID})
	}
}

// @Summary  Create an outbound/return seat block pair
// @Param    req  body  BlockPairRequest  true  "payload"
// @Success  201  {object}  BlockPairResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /api/admin/flights/blocks [post]
func handleCreateBlockPair(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BlockPairRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		outbound, err := flightFromLeg(req.Outbound)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		ret, err := flightFromLeg(req.Return)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		groupID, err := svcs.Admin.CreateBlockPair(c.Request.Context(), &outbound, &ret)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, BlockPairResponse{
			BlockGroupID: groupID,
			OutboundID:   outbound.ID,
			ReturnID:     ret.ID,
		})
	}
}

// @Summary  Update flight
// @Param    id   path  int                  true  "Flight ID"
// @Param    req  body  FlightUpdateRequest  true  "payload"
// @Success  200  {object}  CreatedResponse
// @Router   /api/admin/flights/{id} [put]
func handleUpdateFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req FlightUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		departs, err := parseRFC3339("departs_at", req.DepartsAt)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		arrives, err := parseRFC3339("arrives_at", req.ArrivesAt)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		f := domain.Flight{
			ID:                 id,
			DepartureAirportID: req.DepartureAirportID,
			ArrivalAirportID:   req.ArrivalAirportID,
			DepartsAt:          departs,
			ArrivesAt:          arrives,
			TotalSeats:         req.TotalSeats,
		}

		if err := svcs.Admin.UpdateFlight(c.Request.Context(), &f); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, CreatedResponse{ID: f.ID})
	}
}

// @Summary  Delete flight
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  StatusResponse
// @Router   /api/admin/flights/{id} [delete]
func handleDeleteFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		if err := svcs.Admin.DeleteFlight(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
	}
}

// --- Helpers ---

func hotelFromRequest(req HotelRequest, id int64) domain.Hotel {
	return domain.Hotel{
		ID:      id,
		CityID:  req.CityID,
		Name:    req.Name,
		Stars:   req.Stars,
		Rating:  req.Rating,
		Address: req.Address,
		Active:  boolOrDefault(req.Active, true),
	}
}

func flightFromLeg(leg FlightLegRequest) (domain.Flight, error) {
	departs, err := parseRFC3339("departs_at", leg.DepartsAt)
	if err != nil {
		return domain.Flight{}, err
	}

	arrives, err := parseRFC3339("arrives_at", leg.ArrivesAt)
	if err != nil {
		return domain.Flight{}, err
	}

	return domain.Flight{
		DepartureAirportID: leg.DepartureAirportID,
		ArrivalAirportID:   leg.ArrivalAirportID,
		DepartsAt:          departs,
		ArrivesAt:          arrives,
		TotalSeats:         leg.TotalSeats,
	}, nil
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
