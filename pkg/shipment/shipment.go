package shipment

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	StatusPreTransit     = "pre_transit"
	StatusInTransit      = "in_transit"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusReturned       = "returned"
)

// Shipment mirrors the JSON returned by the upstream tracking API.
// Fields in the detailed group carry contact data and are dropped from the basic view.
type Shipment struct {
	TrackingNumber string `json:"tracking_number" groups:"basic"`

	SenderName        string    `json:"sender_name" groups:"basic"`
	SenderAddress     string    `json:"sender_address" groups:"detailed"`
	SenderPhone       string    `json:"sender_phone" groups:"detailed"`
	SenderEmail       string    `json:"sender_email" groups:"detailed"`
	SenderCoordinates []float64 `json:"sender_coordinates,omitempty" groups:"detailed"`

	ReceiverName        string    `json:"receiver_name" groups:"basic"`
	ReceiverAddress     string    `json:"receiver_address" groups:"detailed"`
	ReceiverPhone       string    `json:"receiver_phone" groups:"detailed"`
	ReceiverEmail       string    `json:"receiver_email" groups:"detailed"`
	ReceiverCoordinates []float64 `json:"receiver_coordinates,omitempty" groups:"detailed"`

	Status               string   `json:"status" groups:"basic"`
	Weight               *float64 `json:"weight,omitempty" groups:"basic"`
	ShipmentType         string   `json:"shipment_type,omitempty" groups:"basic"`
	ShippingMode         string   `json:"shipping_mode,omitempty" groups:"basic"`
	PaymentMode          string   `json:"payment_mode,omitempty" groups:"detailed"`
	TotalFreight         *float64 `json:"total_freight,omitempty" groups:"detailed"`
	OriginCountry        string   `json:"origin_country,omitempty" groups:"basic"`
	DestinationCountry   string   `json:"destination_country,omitempty" groups:"basic"`
	ExpectedDeliveryDate string   `json:"expected_delivery_date,omitempty" groups:"basic"`

	Packages []*Package     `json:"packages,omitempty" groups:"basic"`
	History  []*HistoryItem `json:"history,omitempty" groups:"basic"`

	Carrier          string `json:"carrier,omitempty" groups:"basic"`
	CarrierReference string `json:"carrier_reference,omitempty" groups:"basic"`
	Comments         string `json:"comments,omitempty" groups:"detailed"`

	CreatedAt string `json:"created_at,omitempty" groups:"basic"`
	UpdatedAt string `json:"updated_at,omitempty" groups:"basic"`
}

type Package struct {
	ID          ID       `json:"id,omitempty" groups:"basic"`
	Quantity    int      `json:"quantity" groups:"basic"`
	PieceType   string   `json:"piece_type" groups:"basic"`
	Description string   `json:"description" groups:"basic"`
	Length      *float64 `json:"length,omitempty" groups:"basic"`
	Width       *float64 `json:"width,omitempty" groups:"basic"`
	Height      *float64 `json:"height,omitempty" groups:"basic"`
	Weight      *float64 `json:"weight,omitempty" groups:"basic"`
}

type HistoryItem struct {
	ID          ID        `json:"id,omitempty" groups:"basic"`
	Date        string    `json:"date" groups:"basic"`
	Time        string    `json:"time" groups:"basic"`
	Location    string    `json:"location" groups:"basic"`
	Status      string    `json:"status" groups:"basic"`
	UpdatedBy   string    `json:"updated_by,omitempty" groups:"detailed"`
	Remarks     string    `json:"remarks,omitempty" groups:"basic"`
	Coordinates []float64 `json:"coordinates,omitempty" groups:"detailed"`
}

func (s *Shipment) IsDelivered() bool {
	return s.Status == StatusDelivered
}

func (s *Shipment) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Shipment) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

// ID is sent by the API either as a number or as a string
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		*i = ""
	case string:
		*i = ID(v)
	case float64:
		*i = ID(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported id value %s", string(data))
	}

	return nil
}
