package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/bus-ticket-reservation/internal/booking"
	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var (
	storeDate = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	storeKey  = booking.NewSeatKey(10, 20, storeDate, 7)
)

func TestSeatStoreHasActiveTicket(t *testing.T) {
	db, mock := newMock(t)
	st := NewSeatStore(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(storeKey.BusID, storeKey.RouteID, storeKey.TravelDate, storeKey.SeatNumber).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	sold, err := st.HasActiveTicket(context.Background(), storeKey)
	if err != nil {
		t.Fatalf("HasActiveTicket: %v", err)
	}
	if !sold {
		t.Fatalf("expected seat to be sold")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeatStoreActiveHoldAbsent(t *testing.T) {
	db, mock := newMock(t)
	st := NewSeatStore(db)

	mock.ExpectQuery("FROM seat_reservations").
		WillReturnError(sql.ErrNoRows)

	hold, err := st.ActiveHold(context.Background(), storeKey, storeDate)
	if err != nil {
		t.Fatalf("absent hold must not be an error, got %v", err)
	}
	if hold != nil {
		t.Fatalf("expected nil hold, got %+v", hold)
	}
}

func TestSeatStoreCreateHoldSetsID(t *testing.T) {
	db, mock := newMock(t)
	st := NewSeatStore(db)

	mock.ExpectExec("INSERT INTO seat_reservations").
		WillReturnResult(sqlmock.NewResult(42, 1))

	hold := &model.SeatReservation{
		BusID:           storeKey.BusID,
		RouteID:         storeKey.RouteID,
		SeatNumber:      storeKey.SeatNumber,
		TravelDate:      storeKey.TravelDate,
		ReservationTime: storeDate,
		ExpiryTime:      storeDate.Add(10 * time.Minute),
		IsActive:        true,
	}
	if err := st.CreateHold(context.Background(), hold); err != nil {
		t.Fatalf("CreateHold: %v", err)
	}
	if hold.ID != 42 {
		t.Fatalf("expected hold ID 42, got %d", hold.ID)
	}
}

func TestSeatStoreReleaseHoldIdempotent(t *testing.T) {
	db, mock := newMock(t)
	st := NewSeatStore(db)

	// Zero rows affected (already released / unknown id) is success.
	mock.ExpectExec("UPDATE seat_reservations SET is_active = 0").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := st.ReleaseHold(context.Background(), 999); err != nil {
		t.Fatalf("release of unknown hold must be a no-op, got %v", err)
	}
}

func TestSeatStoreTicketForClientMissing(t *testing.T) {
	db, mock := newMock(t)
	st := NewSeatStore(db)

	mock.ExpectQuery("FROM tickets").
		WithArgs(uint64(5), uint64(77)).
		WillReturnError(sql.ErrNoRows)

	_, err := st.TicketForClient(context.Background(), 5, 77)
	if !errors.Is(err, booking.ErrTicketNotFound) {
		t.Fatalf("expected booking.ErrTicketNotFound, got %v", err)
	}
}

func TestSeatStoreCreateTicketSetsID(t *testing.T) {
	db, mock := newMock(t)
	st := NewSeatStore(db)

	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(7, 1))

	tk := &model.Ticket{
		TicketNumber: "tn-0001",
		ClientID:     77,
		RouteID:      storeKey.RouteID,
		BusID:        storeKey.BusID,
		SeatNumber:   storeKey.SeatNumber,
		TravelDate:   storeKey.TravelDate,
		IsActive:     true,
	}
	if err := st.CreateTicket(context.Background(), tk); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if tk.ID != 7 {
		t.Fatalf("expected ticket ID 7, got %d", tk.ID)
	}
}
