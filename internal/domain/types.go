package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated caller resolved from a session token.
type Actor struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

// IsStaff reports whether the actor may act on bookings they do not own.
func (a Actor) IsStaff() bool {
	return a.Role == RoleAgent || a.Role == RoleAdmin
}

type BookingStatus string

const (
	BookingSoft      BookingStatus = "SOFT"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingPaid      BookingStatus = "PAID"
	BookingCancelled BookingStatus = "CANCELLED"
)

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// The lifecycle only advances: SOFT -> CONFIRMED -> PAID, with CANCELLED
// reachable from any non-terminal state. PAID and CANCELLED are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch next {
	case BookingConfirmed:
		return s == BookingSoft
	case BookingPaid:
		return s == BookingConfirmed
	case BookingCancelled:
		return s == BookingSoft || s == BookingConfirmed
	default:
		return false
	}
}

type Country struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

type City struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Popular   bool   `json:"popular"`
	Active    bool   `json:"active"`
}

type Airport struct {
	ID     int64  `json:"id"`
	CityID int64  `json:"city_id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

type Hotel struct {
	ID      int64   `json:"id"` // allocated 5-digit identifier
	CityID  int64   `json:"city_id"`
	Name    string  `json:"name"`
	Stars   int     `json:"stars"`
	Rating  float64 `json:"rating"`
	Address string  `json:"address"`
	Active  bool    `json:"active"`
}

// HotelWithPackageCount is the public hotel projection: the catalog listing
// annotates each hotel with the number of active packages it appears in.
type HotelWithPackageCount struct {
	Hotel
	PackageCount int64 `json:"package_count"`
}

// Flight is either a reusable template (no block group, zero seats,
// placeholder date) or a sellable block with real timestamps and seat counts.
// Outbound and return legs of one block share BlockGroupID.
type Flight struct {
	ID                 int64     `json:"id"`
	BlockGroupID       *string   `json:"block_group_id,omitempty"`
	DepartureAirportID int64     `json:"departure_airport_id"`
	ArrivalAirportID   int64     `json:"arrival_airport_id"`
	DepartsAt          time.Time `json:"departs_at"`
	ArrivesAt          time.Time `json:"arrives_at"`
	TotalSeats         int       `json:"total_seats"`
	AvailableSeats     int       `json:"available_seats"`
	IsBlockSeat        bool      `json:"is_block_seat"`
}

type Excursion struct {
	ID          int64  `json:"id"`
	CityID      int64  `json:"city_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Active      bool   `json:"active"`
}

type Package struct {
	ID                int64     `json:"id"`
	CityID            int64     `json:"city_id"`
	Name              string    `json:"name"`
	PrimaryHotelID    int64     `json:"primary_hotel_id"`
	TransferIncluded  bool      `json:"transfer_included"`
	Active            bool      `json:"active"`
	AvailableFrom     time.Time `json:"available_from"`
	AvailableTo       time.Time `json:"available_to"`
	HotelIDs          []int64   `json:"hotel_ids,omitempty"`
	FlightBlockGroups []string  `json:"flight_block_groups,omitempty"`
	ExcursionIDs      []int64   `json:"excursion_ids,omitempty"`
}

// PackagePrice is a precomputed price row materialized by an offline pricing
// job. Lookup is an exact match on (adults, children, hotel name, flight
// block id); rows are never recomputed at read time.
type PackagePrice struct {
	ID            int64  `json:"id"`
	PackageID     int64  `json:"package_id"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	HotelName     string `json:"hotel_name"`
	FlightBlockID string `json:"flight_block_id"`
	FlightCents   int64  `json:"flight_cents"`
	HotelCents    int64  `json:"hotel_cents"`
	TransferCents int64  `json:"transfer_cents"`
	TotalCents    int64  `json:"total_cents"`
}

// Quote is the component breakdown returned by a successful price lookup.
type Quote struct {
	FlightCents   int64  `json:"flight_cents"`
	HotelCents    int64  `json:"hotel_cents"`
	TransferCents int64  `json:"transfer_cents"`
	TotalCents    int64  `json:"total_cents"`
	Currency      string `json:"currency"`
}

type Booking struct {
	ID           int64         `json:"id"`
	Code         string        `json:"code"`
	UserID       int64         `json:"user_id"`
	Status       BookingStatus `json:"status"`
	ContactName  string        `json:"contact_name"`
	ContactEmail string        `json:"contact_email"`
	ContactPhone string        `json:"contact_phone"`
	Adults       int           `json:"adults"`
	Children     int           `json:"children"`
	TotalCents   int64         `json:"total_cents"`
	Currency     string        `json:"currency"`
	CreatedAt    time.Time     `json:"created_at"`
	ConfirmedAt  *time.Time    `json:"confirmed_at,omitempty"`
	PaidAt       *time.Time    `json:"paid_at,omitempty"`
	CancelledAt  *time.Time    `json:"cancelled_at,omitempty"`
}

type BookingFlight struct {
	FlightID   int64 `json:"flight_id"`
	Passengers int   `json:"passengers"`
	PriceCents int64 `json:"price_cents"`
}

type BookingHotel struct {
	HotelID    int64  `json:"hotel_id"`
	RoomType   string `json:"room_type"`
	Nights     int    `json:"nights"`
	PriceCents int64  `json:"price_cents"`
}

type BookingTransfer struct {
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type BookingExcursion struct {
	ExcursionID int64 `json:"excursion_id"`
	Quantity    int   `json:"quantity"`
	PriceCents  int64 `json:"price_cents"`
}

// BookingDetails is a booking together with its line items.
type BookingDetails struct {
	Booking    Booking            `json:"booking"`
	Flights    []BookingFlight    `json:"flights"`
	Hotels     []BookingHotel     `json:"hotels"`
	Transfers  []BookingTransfer  `json:"transfers"`
	Excursions []BookingExcursion `json:"excursions"`
}

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}
