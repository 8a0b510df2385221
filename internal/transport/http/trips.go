package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/grossitech/FlyChain/internal/app"
	"github.com/grossitech/FlyChain/internal/cache"
	"github.com/grossitech/FlyChain/internal/docs"
	"github.com/grossitech/FlyChain/internal/domain"
)

// TripCreator is the minimal interface needed to register trips.
type TripCreator interface {
	CreateTrip(ctx context.Context, in app.CreateTripInput) (domain.Trip, error)
}

// TripReader is the minimal interface for trip reads.
type TripReader interface {
	GetTrip(ctx context.Context, id int64) (domain.Trip, error)
	SeatStatus(ctx context.Context, id int64) (int, error)
}

// HandleCreateTrip returns an HTTP handler for operator trip creation.
func HandleCreateTrip(svc TripCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}

		var req createTripRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		departure, err := time.Parse(time.RFC3339, req.DepartureAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid departure_at format")
			return
		}

		trip, err := svc.CreateTrip(r.Context(), app.CreateTripInput{
			Caller:       caller,
			Origin:       req.Origin,
			Destination:  req.Destination,
			DepartureAt:  departure,
			VehicleModel: req.VehicleModel,
			TotalSeats:   req.TotalSeats,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newTripResponse(trip))
	}
}

// HandleTrip routes /trips/{id} and its subresources: seat status, the
// PDF trip sheet, bookings, cancellation, and the operator's escrow
// endpoints.
func HandleTrip(reader TripReader, booker SeatBooker, custody EscrowManager, seats *cache.SeatCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sub, ok := parseTripPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch sub {
		case "":
			handleGetTrip(w, r, reader, id)
		case "seats":
			handleSeatStatus(w, r, reader, seats, id)
		case "sheet":
			handleTripSheet(w, r, reader, id)
		case "bookings":
			handleBook(w, r, booker, seats, id)
		case "cancellation":
			handleCancel(w, r, booker, seats, id)
		case "escrow":
			handleEscrow(w, r, custody, id)
		case "withdrawal":
			handleWithdraw(w, r, custody, id)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleGetTrip(w http.ResponseWriter, r *http.Request, reader TripReader, id int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	trip, err := reader.GetTrip(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(newTripResponse(trip))
}

func handleSeatStatus(w http.ResponseWriter, r *http.Request, reader TripReader, seats *cache.SeatCache, id int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	left, cached := seats.Get(r.Context(), id)
	if !cached {
		var err error
		left, err = reader.SeatStatus(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		seats.Set(r.Context(), id, left)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(seatStatusResponse{TripID: id, SeatsLeft: left})
}

func handleTripSheet(w http.ResponseWriter, r *http.Request, reader TripReader, id int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	trip, err := reader.GetTrip(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	sheet, err := docs.TripSheet(trip)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(sheet)
}

func parseTripPath(path string) (id int64, sub string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "trips" {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id < 0 {
		return 0, "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return 0, "", false
		}
		sub = parts[2]
	}
	return id, sub, true
}

type createTripRequest struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepartureAt  string `json:"departure_at"`
	VehicleModel string `json:"vehicle_model"`
	TotalSeats   int    `json:"total_seats"`
}

type tripResponse struct {
	ID           int64     `json:"id"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	DepartureAt  time.Time `json:"departure_at"`
	VehicleModel string    `json:"vehicle_model"`
	TotalSeats   int       `json:"total_seats"`
	SeatsBooked  int       `json:"seats_booked"`
	SeatsLeft    int       `json:"seats_left"`
	UnitPrice    int64     `json:"unit_price_cents"`
}

func newTripResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:           t.ID,
		Origin:       t.Origin,
		Destination:  t.Destination,
		DepartureAt:  t.DepartureAt,
		VehicleModel: t.VehicleModel,
		TotalSeats:   t.TotalSeats,
		SeatsBooked:  t.SeatsBooked,
		SeatsLeft:    t.SeatsLeft(),
		UnitPrice:    t.UnitPrice,
	}
}

type seatStatusResponse struct {
	TripID    int64 `json:"trip_id"`
	SeatsLeft int   `json:"seats_left"`
}
