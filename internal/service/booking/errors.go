package booking

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrForbidden         = errors.New("caller may not access this booking")
	ErrInvalidTransition = errors.New("booking status does not allow this transition")
	ErrSeatsUnavailable  = errors.New("not enough seats on the selected flight block")
	ErrPriceNotFound     = errors.New("no price for the selected combination")
	ErrBlockNotFound     = errors.New("flight block not found")
)
