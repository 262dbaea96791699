package models

// Ledger is the persisted mapping of every wallet, keyed by address
type Ledger struct {
	Wallets map[string]*Wallet `json:"wallets"`
}

// NewLedger returns an empty ledger
func NewLedger() *Ledger {
	return &Ledger{Wallets: make(map[string]*Wallet)}
}

// Normalize repairs a decoded document: a missing map becomes empty, null
// entries are dropped and an empty embedded address is taken from its key
func (l *Ledger) Normalize() {
	if l.Wallets == nil {
		l.Wallets = make(map[string]*Wallet)
		return
	}
	for address, w := range l.Wallets {
		if w == nil {
			delete(l.Wallets, address)
			continue
		}
		if w.Address == "" {
			w.Address = address
		}
	}
}

// Equal compares two ledgers wallet by wallet
func (l *Ledger) Equal(o *Ledger) bool {
	if len(l.Wallets) != len(o.Wallets) {
		return false
	}
	for address, w := range l.Wallets {
		if !w.Equal(o.Wallets[address]) {
			return false
		}
	}
	return true
}
