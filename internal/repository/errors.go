// Package repository contains data access logic separated from HTTP
// handlers.  Each entity has its own repository bound to a *sql.DB.
// This file defines error values reused across repositories so that
// handlers can distinguish failure scenarios: not-found sentinels map
// to 404 responses, uniqueness and dependency violations to 409.
package repository

import "errors"

// ErrBusNotFound is returned when a bus cannot be found.
var ErrBusNotFound = errors.New("bus not found")

// ErrRouteNotFound is returned when a route cannot be found.
var ErrRouteNotFound = errors.New("route not found")

// ErrTicketNotFound is returned when a ticket cannot be found or does
// not belong to the requesting client.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrRegistrationExists is returned when creating or updating a bus
// would duplicate another bus's registration number.
var ErrRegistrationExists = errors.New("registration number already exists")

// ErrClientExists is returned when registering a client whose
// username or email is already taken.
var ErrClientExists = errors.New("username or email already exists")

// ErrConflict is returned when a delete cannot be performed because
// of dependent records, such as removing a route that still has
// active tickets.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
