// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketsPurchasedEvent is published when a multi-seat purchase
// completes.  It carries enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type TicketsPurchasedEvent struct {
	ClientID      uint64   `json:"client_id"`
	RouteID       uint64   `json:"route_id"`
	RouteName     string   `json:"route_name"`
	BusID         uint64   `json:"bus_id"`
	Departure     string   `json:"departure_station"`
	Arrival       string   `json:"arrival_station"`
	TravelDate    string   `json:"travel_date"`
	SeatNumbers   []uint32 `json:"seats"`
	TicketNumbers []string `json:"ticket_numbers"`
	TotalPrice    int64    `json:"total_price"`
	PurchasedAt   string   `json:"purchased_at"`
}
