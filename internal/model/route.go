package model

import "time"

// Route represents a scheduled bus line between stations.  The
// Stations slice is ordered: its order defines the valid travel
// direction, and the index distance between two stations is the
// segment length used for pricing.  Stations are persisted as a
// JSON array in the `routes.stations` column.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – human-friendly route name.
//  Description   – free-form description.
//  BusID         – bus assigned to this route.
//  DepartureTime – when the bus leaves the first station.
//  ArrivalTime   – when the bus reaches the last station.
//  Stations      – ordered station names along the route.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Route struct {
	ID            uint64    `json:"id"`             // routes.id
	Name          string    `json:"name"`           // routes.name
	Description   string    `json:"description"`    // routes.description
	BusID         uint64    `json:"bus_id"`         // routes.bus_id
	DepartureTime time.Time `json:"departure_time"` // routes.departure_time
	ArrivalTime   time.Time `json:"arrival_time"`   // routes.arrival_time
	Stations      []string  `json:"stations"`       // routes.stations (JSON array)
	CreatedAt     time.Time `json:"created_at"`     // routes.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // routes.updated_at
}

// StationIndex returns the position of a station in the route's
// sequence, or -1 when the station does not belong to the route.
func (r *Route) StationIndex(name string) int {
	for i, s := range r.Stations {
		if s == name {
			return i
		}
	}
	return -1
}
