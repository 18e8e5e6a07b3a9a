package email

import (
	"context"
	"fmt"

	"github.com/skyops/flightbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, notice kafka.BookingNotice) error {
	fmt.Printf("send email to %s: booking %d on flight %s (%s -> %s) %s seat %s is %s, paid %s\n",
		notice.RecipientEmail, notice.BookingID, notice.FlightCode,
		notice.Origin, notice.Destination, notice.TravelDate.Format("2006-01-02"),
		notice.SeatLabel, notice.BookingStatus, notice.AmountPaid.StringFixed(2))
	return nil
}
