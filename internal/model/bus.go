package model

import "time"

// Bus represents a vehicle operated by the carrier.  Each bus has a
// fixed seat capacity; seats are addressed by their number in the
// range 1..Capacity, so no separate seat table exists.  A bus is
// soft-deleted by clearing IsActive.  This struct corresponds to a
// row in the `buses` table.
//
// Fields:
//  ID                 – primary key identifier.
//  RegistrationNumber – unique vehicle registration plate.
//  Model              – manufacturer/model description.
//  Capacity           – number of passenger seats (positive).
//  IsActive           – whether the bus is in service.
//  CreatedAt          – timestamp when the row was created.
//  UpdatedAt          – timestamp of last update.
type Bus struct {
	ID                 uint64    `json:"id"`                  // buses.id
	RegistrationNumber string    `json:"registration_number"` // buses.registration_number
	Model              string    `json:"model"`               // buses.model
	Capacity           uint32    `json:"capacity"`            // buses.capacity
	IsActive           bool      `json:"is_active"`           // buses.is_active
	CreatedAt          time.Time `json:"created_at"`          // buses.created_at
	UpdatedAt          time.Time `json:"updated_at"`          // buses.updated_at
}
