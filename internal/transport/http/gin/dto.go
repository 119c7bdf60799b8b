package httpgin

import (
	"fmt"
	"time"
)

type CheckoutRequest struct {
	PackageID     int64  `json:"package_id" binding:"required"`
	HotelID       int64  `json:"hotel_id" binding:"required"`
	HotelName     string `json:"hotel_name" binding:"required"`
	FlightBlockID string `json:"flight_block_id" binding:"required"`
	Adults        int    `json:"adults" binding:"required,gt=0"`
	Children      int    `json:"children" binding:"gte=0"`
	Nights        int    `json:"nights" binding:"required,gt=0"`
	RoomType      string `json:"room_type"`
	ContactName   string `json:"contact_name" binding:"required"`
	ContactEmail  string `json:"contact_email" binding:"required,email"`
	ContactPhone  string `json:"contact_phone"`
}

type HotelSearchRequest struct {
	CityID int64  `json:"city_id" form:"city_id" binding:"required"`
	From   string `json:"from" form:"from" binding:"required"`
	To     string `json:"to" form:"to" binding:"required"`
	Guests int    `json:"guests" form:"guests"`
}

type QuoteRequest struct {
	HotelName     string `form:"hotel_name" binding:"required"`
	FlightBlockID string `form:"flight_block_id" binding:"required"`
	Adults        int    `form:"adults" binding:"required,gt=0"`
	Children      int    `form:"children"`
}

type CountryRequest struct {
	Name   string `json:"name" binding:"required"`
	Code   string `json:"code" binding:"required,len=2"`
	Active *bool  `json:"active"`
}

type CityRequest struct {
	CountryID int64  `json:"country_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Popular   bool   `json:"popular"`
	Active    *bool  `json:"active"`
}

type HotelRequest struct {
	ID      int64   `json:"id" binding:"required"`
	CityID  int64   `json:"city_id" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	Stars   int     `json:"stars" binding:"gte=0,lte=5"`
	Rating  float64 `json:"rating" binding:"gte=0,lte=10"`
	Address string  `json:"address"`
	Active  *bool   `json:"active"`
}

type FlightTemplateRequest struct {
	DepartureAirportID int64 `json:"departure_airport_id" binding:"required"`
	ArrivalAirportID   int64 `json:"arrival_airport_id" binding:"required"`
}

type FlightLegRequest struct {
	DepartureAirportID int64  `json:"departure_airport_id" binding:"required"`
	ArrivalAirportID   int64  `json:"arrival_airport_id" binding:"required"`
	DepartsAt          string `json:"departs_at" binding:"required"`
	ArrivesAt          string `json:"arrives_at" binding:"required"`
	TotalSeats         int    `json:"total_seats" binding:"required,gt=0"`
}

type BlockPairRequest struct {
	Outbound FlightLegRequest `json:"outbound" binding:"required"`
	Return   FlightLegRequest `json:"return" binding:"required"`
}

type FlightUpdateRequest struct {
	DepartureAirportID int64  `json:"departure_airport_id" binding:"required"`
	ArrivalAirportID   int64  `json:"arrival_airport_id" binding:"required"`
	DepartsAt          string `json:"departs_at" binding:"required"`
	ArrivesAt          string `json:"arrives_at" binding:"required"`
	TotalSeats         int    `json:"total_seats" binding:"gte=0"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type GenerateIDResponse struct {
	ID int64 `json:"id"`
}

type BlockPairResponse struct {
	BlockGroupID string `json:"block_group_id"`
	OutboundID   int64  `json:"outbound_id"`
	ReturnID     int64  `json:"return_id"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func parseRFC3339(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be RFC3339", field)
	}

	return t, nil
}

// parseDay accepts a bare date for search windows and day-scoped listings.
func parseDay(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", field)
	}

	return t, nil
}
