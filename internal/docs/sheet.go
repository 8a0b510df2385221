// Package docs renders human-readable documents derived from trip
// snapshots. It reads trip state and produces output only; it never
// mutates the ledger.
package docs

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/grossitech/FlyChain/internal/domain"
)

// TripSheet renders a one-page PDF describing a trip: route, departure,
// vehicle, seats remaining and the unit price.
func TripSheet(trip domain.Trip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Trip %d %s-%s", trip.ID, trip.Origin, trip.Destination), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, fmt.Sprintf("Trip %d: %s - %s", trip.ID, trip.Origin, trip.Destination), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(4)

	rows := [][2]string{
		{"Departure", trip.DepartureAt.UTC().Format(time.RFC1123)},
		{"Vehicle", trip.VehicleModel},
		{"Seats remaining", fmt.Sprintf("%d of %d", trip.SeatsLeft(), trip.TotalSeats)},
		{"Price per seat", formatCents(trip.UnitPrice)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(48, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Booking closes %s", trip.BookingDeadline().UTC().Format(time.RFC1123)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render trip sheet: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCents(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
