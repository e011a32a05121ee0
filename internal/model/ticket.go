package model

import "time"

// Ticket represents a sold seat on a bus route for a specific travel
// date.  At most one active ticket may exist per
// (bus, route, travel date, seat number).  Cancellation is a soft
// delete: IsActive is cleared and the seat becomes available again.
//
// Fields:
//  ID               – primary key identifier.
//  TicketNumber     – globally unique opaque token (uuid).
//  ClientID         – purchasing client.
//  RouteID          – route the ticket is valid on.
//  BusID            – bus serving the route.
//  DepartureStation – boarding station; must precede ArrivalStation
//                     in the route's station sequence.
//  ArrivalStation   – destination station.
//  SeatNumber       – seat in the range 1..bus.capacity.
//  PurchaseDate     – when the ticket was bought.
//  TravelDate       – calendar day of travel (UTC).
//  IsActive         – false once cancelled.
type Ticket struct {
	ID               uint64    `json:"id"`                // tickets.id
	TicketNumber     string    `json:"ticket_number"`     // tickets.ticket_number
	ClientID         uint64    `json:"client_id"`         // tickets.client_id
	RouteID          uint64    `json:"route_id"`          // tickets.route_id
	BusID            uint64    `json:"bus_id"`            // tickets.bus_id
	DepartureStation string    `json:"departure_station"` // tickets.departure_station
	ArrivalStation   string    `json:"arrival_station"`   // tickets.arrival_station
	SeatNumber       uint32    `json:"seat_number"`       // tickets.seat_number
	PurchaseDate     time.Time `json:"purchase_date"`     // tickets.purchase_date
	TravelDate       time.Time `json:"travel_date"`       // tickets.travel_date
	IsActive         bool      `json:"is_active"`         // tickets.is_active
}
