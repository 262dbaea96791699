package memory_test

import (
	"testing"

	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/storetest"
)

func TestMemoryLedgerStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		return memory.NewMemoryLedgerStore()
	})
}
