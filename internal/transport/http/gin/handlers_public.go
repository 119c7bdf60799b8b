package httpgin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/voyago/internal/service"
)

// @Summary  List active cities
// @Success  200  {array}  domain.City
// @Router   /api/cities [get]
func handleListCities(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Catalog.ListCities(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List countries
// @Success  200  {array}  domain.Country
// @Router   /api/countries [get]
func handleListCountries(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Catalog.ListCountries(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List excursions
// @Param    city_id  query  int  false  "filter by city"
// @Success  200  {array}  domain.Excursion
// @Router   /api/excursions [get]
func handleListExcursions(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cityID := int64(parseIntDefault(c.Query("city_id"), 0))

		out, err := svcs.Catalog.ListExcursions(c.Request.Context(), cityID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List bookable destinations
// @Param    date  query  string  false  "YYYY-MM-DD, defaults to today"
// @Success  200  {array}  domain.City
// @Router   /api/public/destinations [get]
func handleListDestinations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		at := time.Now()
		if raw := c.Query("date"); raw != "" {
			parsed, err := parseDay("date", raw)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			at = parsed
		}

		out, err := svcs.Catalog.ListDestinations(c.Request.Context(), at)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List hotels with active package counts
// @Success  200  {array}  domain.HotelWithPackageCount
// @Router   /api/public/hotels [get]
func handleListHotels(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Catalog.ListHotels(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List active packages for a city
// @Param    city_id  query  int     true   "destination city"
// @Param    date     query  string  false  "YYYY-MM-DD, defaults to today"
// @Success  200  {array}  domain.Package
// @Failure  400  {object}  ErrorResponse
// @Router   /api/public/packages [get]
func handleListPackages(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cityID := int64(parseIntDefault(c.Query("city_id"), 0))
		if cityID <= 0 {
			badRequest(c, "city_id is required")
			return
		}

		at := time.Now()
		if raw := c.Query("date"); raw != "" {
			parsed, err := parseDay("date", raw)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			at = parsed
		}

		out, err := svcs.Catalog.ListPackagesByCity(c.Request.Context(), cityID, at)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=30", true)
	}
}

// @Summary  Get one package with its hotel, block and excursion links
// @Param    id  path  int  true  "Package ID"
// @Success  200  {object}  domain.Package
// @Failure  404  {object}  ErrorResponse
// @Router   /api/public/packages/{id} [get]
func handleGetPackage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		p, err := svcs.Catalog.GetPackage(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, p, "public, max-age=30", true)
	}
}

// @Summary  Quote a package for an exact selection
// @Param    id               path   int     true  "Package ID"
// @Param    hotel_name       query  string  true  "selected hotel"
// @Param    flight_block_id  query  string  true  "selected flight block"
// @Param    adults           query  int     true  "adults"
// @Param    children         query  int     false "children"
// @Success  200  {object}  domain.Quote
// @Failure  404  {object}  ErrorResponse  "no matching price row"
// @Router   /api/public/packages/{id}/quote [get]
func handleQuotePackage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		packageID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req QuoteRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		quote, found, err := svcs.Pricing.QuotePackage(
			c.Request.Context(),
			packageID,
			req.HotelName,
			req.FlightBlockID,
			req.Adults,
			req.Children,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no price for the selected combination"})
			return
		}

		c.JSON(http.StatusOK, quote)
	}
}

// @Summary  Search hotels for a stay window
// @Param    req  body  HotelSearchRequest  true  "payload (POST); GET uses the same fields as query params"
// @Success  200  {array}  domain.Hotel
// @Failure  400  {object}  ErrorResponse
// @Router   /api/hotels/search [post]
func handleSearchHotels(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req HotelSearchRequest

		var err error
		if c.Request.Method == http.MethodGet {
			err = c.ShouldBindQuery(&req)
		} else {
			err = c.ShouldBindJSON(&req)
		}
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		from, err := parseDay("from", req.From)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		to, err := parseDay("to", req.To)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		if to.Before(from) {
			badRequest(c, "to must not precede from")
			return
		}

		out, err := svcs.Catalog.SearchHotels(c.Request.Context(), req.CityID, from, to, req.Guests)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, out)
	}
}
