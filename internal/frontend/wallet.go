package frontend

import (
	"context"
	"errors"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
)

// WalletClient registers wallets and shows their status
type WalletClient struct {
	service interfaces.WalletService
	console *Console
	rules   reward.Rules

	view    View
	address string
}

func NewWalletClient(service interfaces.WalletService, console *Console, rules reward.Rules) *WalletClient {
	return &WalletClient{
		service: service,
		console: console,
		rules:   rules,
		view:    ViewLogin,
	}
}

func (c *WalletClient) View() View {
	return c.view
}

func (c *WalletClient) Run(ctx context.Context) error {
	for c.view != ViewExit {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch c.view {
		case ViewLogin:
			c.auth(ctx)
		case ViewSession:
			c.session(ctx)
		}
	}
	return nil
}

func (c *WalletClient) auth(ctx context.Context) {
	c.console.Println()
	c.console.Println("--- Cooin Authentication ---")

	choice, ok := c.console.Menu(
		"Login to Existing Wallet",
		"Register New Wallet",
		"Exit",
	)
	if !ok {
		c.view = ViewExit
		return
	}

	switch choice {
	case "1":
		c.login(ctx)
	case "2":
		c.register(ctx)
	case "3":
		c.view = ViewExit
	default:
		c.console.Println("Invalid choice. Please enter 1, 2, or 3.")
	}
}

func (c *WalletClient) login(ctx context.Context) {
	input, ok := c.console.Prompt("16-Character Wallet Address (Token): ")
	if !ok {
		c.view = ViewExit
		return
	}

	w, err := c.service.Authenticate(ctx, input)
	if err != nil {
		c.console.Printf("Login Failed: %s\n", describe(err))
		return
	}

	c.console.Printf("Logged in as %s...\n", w.Address[:8])
	c.address = w.Address
	c.view = ViewSession
}

// register creates a wallet and logs straight into it
func (c *WalletClient) register(ctx context.Context) {
	w, err := c.service.Register(ctx)
	if err != nil {
		c.console.Printf("Registration Failed: %s\n", describe(err))
		return
	}

	c.console.Println("New Wallet Created!")
	c.console.Printf("Your Address: %s\n", w.Address)
	c.console.Println("This is your permanent login token. Write it down!")
	c.address = w.Address
	c.view = ViewSession
}

func (c *WalletClient) session(ctx context.Context) {
	w, err := c.service.Authenticate(ctx, c.address)
	if errors.Is(err, fault.ErrWalletNotFound) {
		c.console.Println("Error: Wallet data missing after refresh.")
		c.logout()
		return
	}
	if err != nil {
		c.console.Println(describe(err))
		c.logout()
		return
	}
	RenderWallet(c.console, w, c.rules)

	choice, ok := c.console.Menu("Refresh Status", "Logout")
	if !ok {
		c.view = ViewExit
		return
	}

	switch choice {
	case "1":
		// the next pass reloads the wallet
	case "2":
		c.logout()
	default:
		c.console.Println("Invalid choice. Please enter 1 or 2.")
	}
}

func (c *WalletClient) logout() {
	c.address = ""
	c.view = ViewLogin
}

// RenderWallet prints the wallet status screen
func RenderWallet(console *Console, w *models.Wallet, rules reward.Rules) {
	console.Println()
	console.Println("--- Active Cooin Wallet Status ---")
	console.Printf("Wallet Address: %s\n", w.Address)
	console.Printf("Current Balance: %s\n", amount(w.Balance))
	console.Printf("Flight Score (PoF Efficiency): %s\n", score(w.FlightScore))
	console.Printf("(Mining Cost: %s)\n", amount(rules.MineCost))
	console.Println("*Run the miner or the daily task client to change balance*")
}

// Watch renders the wallet now and again every time changed fires, until
// ctx is done or changed is closed
func Watch(ctx context.Context, service interfaces.WalletService, console *Console, rules reward.Rules, address string, changed <-chan struct{}) error {
	render := func() error {
		w, err := service.Authenticate(ctx, address)
		if err != nil {
			return err
		}
		RenderWallet(console, w, rules)
		return nil
	}

	if err := render(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changed:
			if !ok {
				return nil
			}
			if err := render(); err != nil {
				console.Println(describe(err))
			}
		}
	}
}
