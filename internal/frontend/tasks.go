package frontend

import (
	"context"
	"errors"
	"strings"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
)

// TaskClient is the daily task hub: log in, then earn the fixed task reward
type TaskClient struct {
	service interfaces.WalletService
	console *Console
	rules   reward.Rules

	view    View
	address string
	wallet  *models.Wallet
}

func NewTaskClient(service interfaces.WalletService, console *Console, rules reward.Rules) *TaskClient {
	return &TaskClient{
		service: service,
		console: console,
		rules:   rules,
		view:    ViewLogin,
	}
}

func (t *TaskClient) View() View {
	return t.view
}

// Run loops until input ends or the user quits from the login screen
func (t *TaskClient) Run(ctx context.Context) error {
	for t.view != ViewExit {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch t.view {
		case ViewLogin:
			t.login(ctx)
		case ViewSession:
			t.session(ctx)
		}
	}
	return nil
}

func (t *TaskClient) login(ctx context.Context) {
	t.console.Println()
	t.console.Println("--- Cooin Task Client Login ---")
	t.console.Println("Use the wallet client to register new addresses. Enter q to quit.")

	input, ok := t.console.Prompt("16-Char Wallet Address: ")
	if !ok || strings.EqualFold(input, "q") {
		t.view = ViewExit
		return
	}

	w, err := t.service.Authenticate(ctx, input)
	if err != nil {
		if errors.Is(err, fault.ErrInvalidAddress) || errors.Is(err, fault.ErrWalletNotFound) {
			t.console.Println("Login Failed: Invalid or unregistered 16-character address.")
		} else {
			t.console.Println(describe(err))
		}
		return
	}

	t.address = w.Address
	t.wallet = w
	t.view = ViewSession
}

func (t *TaskClient) session(ctx context.Context) {
	t.status()

	choice, ok := t.console.Menu(
		"COMPLETE DAILY TASK ("+amount(t.rules.DailyTaskReward)+")",
		"Refresh",
		"Logout",
	)
	if !ok {
		t.view = ViewExit
		return
	}

	switch choice {
	case "1":
		t.complete(ctx)
	case "2":
		t.refresh(ctx)
	case "3":
		t.logout()
	default:
		t.console.Println("Invalid choice. Please enter 1, 2, or 3.")
	}
}

func (t *TaskClient) status() {
	t.console.Println()
	t.console.Println("--- Pigeon Daily Task Hub ---")
	t.console.Printf("Address: %s\n", t.wallet.Address)
	t.console.Printf("Balance: %s\n", amount(t.wallet.Balance))
}

func (t *TaskClient) complete(ctx context.Context) {
	result, err := t.service.CompleteDailyTask(ctx, t.address)
	if errors.Is(err, fault.ErrWalletNotFound) {
		t.console.Println("Error: Wallet not found. Please log in again.")
		t.logout()
		return
	}
	if err != nil {
		t.console.Println(describe(err))
		return
	}

	t.console.Println("Task Complete!")
	t.console.Printf("Your pigeon finished: '%s'\n", result.Task)
	t.console.Printf("Earned %s. New balance: %s\n", amount(result.Reward), amount(result.Balance))
	t.wallet.Balance = result.Balance
}

func (t *TaskClient) refresh(ctx context.Context) {
	w, err := t.service.Authenticate(ctx, t.address)
	if errors.Is(err, fault.ErrWalletNotFound) {
		t.console.Println("Error: Wallet not found. Please log in again.")
		t.logout()
		return
	}
	if err != nil {
		t.console.Println(describe(err))
		return
	}
	t.wallet = w
}

func (t *TaskClient) logout() {
	t.address = ""
	t.wallet = nil
	t.view = ViewLogin
}
