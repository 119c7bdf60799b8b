package admin

import "errors"

var (
	ErrCountryConflict   = errors.New("country already exists")
	ErrCityConflict      = errors.New("city already exists")
	ErrHotelConflict     = errors.New("hotel already exists")
	ErrFlightConflict    = errors.New("flight already exists")
	ErrNotFound          = errors.New("record not found")
	ErrIDSpaceExhausted  = errors.New("no free hotel id after maximum attempts")
	ErrInvalidHotelID    = errors.New("hotel id must be a 5-digit number")
	ErrInvalidBlock      = errors.New("block legs must have positive seat counts")
	ErrTemplateWithSeats = errors.New("flight template must not carry seats")
)
