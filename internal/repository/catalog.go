package repository

import (
	"context"
	"errors"

	"github.com/iliyamo/bus-ticket-reservation/internal/booking"
	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// Catalog adapts the route and bus repositories to the booking
// core's Catalog interface, translating repository sentinels into the
// booking package's own not-found errors.
type Catalog struct {
	Routes *RouteRepo
	Buses  *BusRepo
}

// NewCatalog wires a Catalog over the two repositories.
func NewCatalog(routes *RouteRepo, buses *BusRepo) *Catalog {
	return &Catalog{Routes: routes, Buses: buses}
}

func (c *Catalog) RouteByID(ctx context.Context, id uint64) (*model.Route, error) {
	rt, err := c.Routes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return nil, booking.ErrRouteNotFound
		}
		return nil, err
	}
	return rt, nil
}

func (c *Catalog) BusByID(ctx context.Context, id uint64) (*model.Bus, error) {
	b, err := c.Buses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBusNotFound) {
			return nil, booking.ErrBusNotFound
		}
		return nil, err
	}
	return b, nil
}
