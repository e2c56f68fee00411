package email

import (
	"context"
	"fmt"

	"github.com/avelis/cargohold/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify %s: booking %s %s (flights %v, %.1f kg)\n",
		event.Requester, event.Reference, event.Type, event.FlightIDs, event.ChargeableWeight)
	return nil
}
