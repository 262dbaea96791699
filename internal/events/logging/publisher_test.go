package logging_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/cooin-ledger/internal/events/logging"
	"github.com/sheikh-saqib/cooin-ledger/internal/fixtures"
	"github.com/sheikh-saqib/cooin-ledger/internal/models/events"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestPublish(t *testing.T) {
	p := logging.NewPublisher()
	defer p.Close()

	err := p.Publish(context.Background(), events.TopicWalletRegistered, events.WalletRegistered{
		Envelope: events.NewEnvelope("abcDEF0123456789", time.Now()),
	})
	assert.NoError(t, err)

	assert.Error(t, p.Publish(context.Background(), "cooin.bad", func() {}))
}
