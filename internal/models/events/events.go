package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// topics every ledger mutation is published on
const (
	TopicWalletRegistered = "cooin.wallet_registered"
	TopicFlightLaunched   = "cooin.flight_launched"
	TopicFlightLanded     = "cooin.flight_landed"
	TopicTaskCompleted    = "cooin.task_completed"
)

// Envelope carries the fields shared by every event
type Envelope struct {
	EventID    string    `json:"event_id"`
	Address    string    `json:"address"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEnvelope stamps a new event for the wallet
func NewEnvelope(address string, at time.Time) Envelope {
	return Envelope{
		EventID:    uuid.New().String(),
		Address:    address,
		OccurredAt: at.UTC(),
	}
}

type WalletRegistered struct {
	Envelope
	FlightScore decimal.Decimal `json:"flight_score"`
}

type FlightLaunched struct {
	Envelope
	FlightID string          `json:"flight_id"`
	Cost     decimal.Decimal `json:"cost"`
	Balance  decimal.Decimal `json:"balance"`
}

type FlightLanded struct {
	Envelope
	FlightID    string          `json:"flight_id"`
	Success     bool            `json:"success"`
	Chance      float64         `json:"chance"`
	Reward      decimal.Decimal `json:"reward"`
	FlightScore decimal.Decimal `json:"flight_score"`
	Balance     decimal.Decimal `json:"balance"`
}

type TaskCompleted struct {
	Envelope
	Task    string          `json:"task"`
	Reward  decimal.Decimal `json:"reward"`
	Balance decimal.Decimal `json:"balance"`
}

// PartitionKey keeps every event of one wallet on the same partition
func (e Envelope) PartitionKey() string {
	return e.Address
}
