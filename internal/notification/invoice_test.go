package notification

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/queue"
)

func sampleEvent() queue.BookingConfirmedEvent {
	return queue.BookingConfirmedEvent{
		BookingID: 42,
		UserEmail: "guest@example.com",
		HotelName: "Hotel Astoria",
		City:      "Vienna",
		CheckIn:   "2026-09-14",
		CheckOut:  "2026-09-17",
		Rooms: []queue.BookedRoom{
			{RoomNumber: "101", Category: "Standard Double", CheckIn: "2026-09-14", CheckOut: "2026-09-17"},
		},
		TotalAmountCents: 24000,
		PaymentMethod:    "CARD",
		PaymentRef:       "pay-123",
		ConfirmedAt:      "2026-09-01T10:00:00Z",
	}
}

func TestGenerateInvoice(t *testing.T) {
	pdf, err := GenerateInvoice(sampleEvent())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	require.Equal(t, "%PDF", string(pdf[:4]))
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "$240.00", formatCents(24000))
	require.Equal(t, "$0.05", formatCents(5))
	require.Equal(t, "$1.50", formatCents(150))
}
