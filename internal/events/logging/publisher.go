// Package logging publishes events to the log when no broker is configured
package logging

import (
	"context"
	"encoding/json"

	"github.com/bitmark-inc/logger"

	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
)

type Publisher struct {
	log *logger.L
}

func NewPublisher() *Publisher {
	return &Publisher{
		log: logger.New("events"),
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.log.Infof("%s: %s", topic, data)
	return nil
}

func (p *Publisher) Close() error {
	return nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
