package shipment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
)

// Ticket is the downloadable snapshot of a shipment
type Ticket struct {
	GeneratedAt time.Time `json:"generated_at"`
	Labels      Labels    `json:"labels"`

	Shipment Shipment `json:"shipment"`
}

func NewTicket(s *Shipment, lang Language, now time.Time) (*Ticket, error) {
	ticket := &Ticket{
		GeneratedAt: now,
		Labels:      s.Labels(lang),
	}

	if err := copier.CopyWithOption(&ticket.Shipment, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy shipment into ticket: %w", err)
	}

	return ticket, nil
}

func (t *Ticket) Filename() string {
	return fmt.Sprintf("ticket-%s.json", t.Shipment.TrackingNumber)
}

func (t *Ticket) JSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
