package frontend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	"github.com/sheikh-saqib/cooin-ledger/internal/history"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
	"github.com/sheikh-saqib/cooin-ledger/internal/random"
	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
)

// progress bar steps while a flight is airborne
const flightSteps = 10

type MinerOptions struct {
	Rules        reward.Rules
	MinDelay     time.Duration
	MaxDelay     time.Duration
	HistoryLimit int
	Random       random.Source // picks the flight delay
}

// Miner is the Proof-of-Flight mining session
type Miner struct {
	service interfaces.WalletService
	console *Console
	opts    MinerOptions

	view    View
	address string
}

func NewMiner(service interfaces.WalletService, console *Console, opts MinerOptions) *Miner {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = history.DefaultDisplayLimit
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	if opts.Random == nil {
		opts.Random = random.NewSeeded(0)
	}
	return &Miner{
		service: service,
		console: console,
		opts:    opts,
		view:    ViewLogin,
	}
}

// View reports the current screen
func (m *Miner) View() View {
	return m.view
}

// Run drives the session until the user logs out or input ends
func (m *Miner) Run(ctx context.Context) error {
	m.console.Println()
	m.console.Println("--- Cooin Proof-of-Flight Miner Client ---")

	for m.view != ViewExit {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch m.view {
		case ViewLogin:
			m.login(ctx)
		case ViewSession:
			m.session(ctx)
		}
	}
	return nil
}

func (m *Miner) login(ctx context.Context) {
	n, err := m.service.WalletCount(ctx)
	if err != nil {
		m.console.Println(describe(err))
		m.view = ViewExit
		return
	}
	if n == 0 {
		m.console.Println()
		m.console.Println("No Cooin Wallets found. Please register one first using the wallet client.")
		m.console.Pause(2 * time.Second)
		m.view = ViewExit
		return
	}

	m.console.Println()
	m.console.Println("--- Miner Login ---")
	input, ok := m.console.Prompt("Enter your 16-character Wallet Address (Miner Target): ")
	if !ok {
		m.view = ViewExit
		return
	}

	w, err := m.service.Authenticate(ctx, input)
	if err != nil {
		m.console.Println()
		if errors.Is(err, fault.ErrInvalidAddress) || errors.Is(err, fault.ErrWalletNotFound) {
			m.console.Println("Invalid Address. Cannot start mining session.")
		} else {
			m.console.Println(describe(err))
		}
		m.console.Pause(time.Second)
		return
	}

	m.address = w.Address
	m.view = ViewSession
	m.console.Println()
	m.console.Printf("Miner Logged in. Ready to mine for: %s\n", m.address)
	m.console.Pause(time.Second)
}

func (m *Miner) session(ctx context.Context) {
	w, err := m.service.Authenticate(ctx, m.address)
	if err != nil {
		m.console.Println(describe(err))
		m.view = ViewExit
		return
	}
	m.status(w)

	choice, ok := m.console.Menu(
		"Start PoF Mining (Generate Cooin)",
		"View Flight Score History",
		"Logout and Close Miner",
	)
	if !ok {
		m.view = ViewExit
		return
	}

	switch choice {
	case "1":
		m.mine(ctx)
	case "2":
		m.history(ctx)
	case "3":
		m.console.Printf("Logging out of mining session for %s.\n", m.address)
		m.address = ""
		m.view = ViewExit
		m.console.Pause(time.Second)
	default:
		m.console.Println("Invalid choice. Please enter 1, 2, or 3.")
		m.console.Pause(time.Second)
	}
}

func (m *Miner) status(w *models.Wallet) {
	m.console.Println()
	m.console.Rule("=")
	m.console.Println("Cooin PoF Mining Client - Active Session")
	m.console.Rule("=")
	m.console.Printf("Target Wallet: %s\n", w.Address)
	m.console.Printf("Current Balance: %s\n", amount(w.Balance))
	m.console.Printf("Flight Score (Efficiency): %s\n", score(w.FlightScore))
	m.console.Printf("Cost per PoF Flight: %s\n", amount(m.opts.Rules.MineCost))
	m.console.Rule("=")
	m.console.Println()
}

func (m *Miner) mine(ctx context.Context) {
	flight, err := m.service.LaunchFlight(ctx, m.address)
	if errors.Is(err, fault.ErrInsufficientFunds) {
		m.console.Printf("ERROR: Not enough Cooin to initiate flight. Need %s.\n", amount(m.opts.Rules.MineCost))
		m.console.Println("Suggestion: Use the daily task client to earn your initial balance!")
		m.console.Pause(2 * time.Second)
		return
	}
	if err != nil {
		m.console.Println(describe(err))
		return
	}

	m.console.Println("Initiating Proof-of-Flight... The Cooin Carrier Pigeon is airborne!")
	m.fly()

	result, err := m.service.LandFlight(ctx, flight.ID)
	if err != nil {
		m.console.Println(describe(err))
		return
	}

	if result.Success {
		m.console.Printf("SUCCESS! Block confirmed by Cooin. You earned %s.\n", amount(result.Reward))
		m.console.Printf("      -> Flight Score increased to %s!\n", score(result.FlightScore))
	} else {
		m.console.Println("FAILURE: Carrier pigeon encountered turbulence. No block found this time.")
		m.console.Printf("      -> Flight Score remains %s. Try again!\n", score(result.FlightScore))
	}
	m.console.Pause(time.Second)
}

// fly shows the cosmetic flight delay as a progress bar
func (m *Miner) fly() {
	spread := m.opts.MaxDelay - m.opts.MinDelay
	delay := m.opts.MinDelay + time.Duration(m.opts.Random.Float64()*float64(spread))
	step := delay / flightSteps

	for i := 1; i <= flightSteps; i++ {
		bar := strings.Repeat("#", i) + strings.Repeat(".", flightSteps-i)
		m.console.Printf("|%s| Verifying delivery... (%d%%)\r", bar, i*100/flightSteps)
		m.console.Pause(step)
	}
	m.console.Println()
	m.console.Println()
}

func (m *Miner) history(ctx context.Context) {
	view, err := m.service.History(ctx, m.address, m.opts.HistoryLimit)
	if err != nil {
		m.console.Println(describe(err))
		return
	}
	renderHistory(m.console, view)
	if !history.Significant(view) {
		m.console.Pause(time.Second)
	} else {
		m.console.Pause(2 * time.Second)
	}
}
