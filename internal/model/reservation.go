package model

import "time"

// SeatReservation is a temporary hold on a seat during checkout.
// Holds prevent concurrent purchases from grabbing the same seat
// while a client completes payment.  A hold is live only while
// IsActive is set AND ExpiryTime is in the future; expiry is
// evaluated lazily by every availability check, so a hold whose TTL
// elapsed stops blocking the seat even if the row was never updated.
//
// Fields:
//  ID              – primary key identifier.
//  TicketID        – ticket the hold was converted into (null until
//                    consumed by a purchase).
//  BusID           – bus whose seat is held.
//  RouteID         – route the seat is held on.
//  SeatNumber      – seat being held.
//  TravelDate      – calendar day of travel the hold applies to.
//  ReservationTime – when the hold was created.
//  ExpiryTime      – ReservationTime plus the configured TTL.
//  IsActive        – cleared on release, expiry reaping or conversion.
type SeatReservation struct {
	ID              uint64    `json:"id"`                  // seat_reservations.id
	TicketID        *uint64   `json:"ticket_id,omitempty"` // seat_reservations.ticket_id (nullable)
	BusID           uint64    `json:"bus_id"`              // seat_reservations.bus_id
	RouteID         uint64    `json:"route_id"`            // seat_reservations.route_id
	SeatNumber      uint32    `json:"seat_number"`         // seat_reservations.seat_number
	TravelDate      time.Time `json:"travel_date"`         // seat_reservations.travel_date
	ReservationTime time.Time `json:"reservation_time"`    // seat_reservations.reservation_time
	ExpiryTime      time.Time `json:"expiry_time"`         // seat_reservations.expiry_time
	IsActive        bool      `json:"is_active"`           // seat_reservations.is_active
}
