package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	"github.com/sheikh-saqib/cooin-ledger/internal/history"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
	"github.com/sheikh-saqib/cooin-ledger/internal/models/events"
	"github.com/sheikh-saqib/cooin-ledger/internal/random"
	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
)

const (
	addressAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAddressAttempts = 5

	// DefaultFlightTTL is how long a launched flight waits to be landed
	DefaultFlightTTL = 2 * time.Minute
)

// Ledger is the wallet service: registration, login, mining and daily
// tasks on top of any LedgerStore
type Ledger struct {
	store     interfaces.LedgerStore    // where wallets live, any backend
	publisher interfaces.EventPublisher // optional, nil publishes nothing
	rules     reward.Rules              // mining and task economics
	src       random.Source             // outcome draws
	addrSrc   random.Source             // address generation
	flights   *cache.Cache              // flight id -> *models.Flight awaiting landing
	now       func() time.Time          // clock, replaceable in tests
	log       *logger.L                 // ledger category log
	muMap     map[string]*sync.Mutex    // stores the *sync.Mutex for each wallet
	mapMu     sync.Mutex                // protects the muMap itself
	flightTTL time.Duration
	window    int // history entries shown when no limit is asked for
}

// Option customises a Ledger
type Option func(*Ledger)

func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithRules(r reward.Rules) Option {
	return func(l *Ledger) { l.rules = r }
}

// WithRandom sets the source for mining outcomes and task picks
func WithRandom(src random.Source) Option {
	return func(l *Ledger) { l.src = src }
}

// WithAddressSource sets the source for new wallet addresses
func WithAddressSource(src random.Source) Option {
	return func(l *Ledger) { l.addrSrc = src }
}

func WithFlightTTL(d time.Duration) Option {
	return func(l *Ledger) { l.flightTTL = d }
}

// WithHistoryLimit sets the history window used when History is asked for
// limit 0
func WithHistoryLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.window = n
		}
	}
}

// NewLedger is a constructor function that creates a new Ledger instance
// over the given storage implementation
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		rules:     reward.DefaultRules(),
		src:       random.NewSeeded(0),
		addrSrc:   random.NewSecure(),
		now:       time.Now,
		log:       logger.New("ledger"),
		muMap:     make(map[string]*sync.Mutex),
		flightTTL: DefaultFlightTTL,
		window:    history.DefaultDisplayLimit,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.flights = cache.New(l.flightTTL, 2*l.flightTTL)
	return l
}

func (l *Ledger) getAccountLock(address string) *sync.Mutex {

	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[address]; !exists {
		l.muMap[address] = &sync.Mutex{}
	}
	return l.muMap[address]
}

func (l *Ledger) WalletCount(ctx context.Context) (int, error) {
	return l.store.Count(ctx)
}

// Register creates a wallet with a fresh random address and persists it
// immediately. An address already in the ledger is regenerated
func (l *Ledger) Register(ctx context.Context) (*models.Wallet, error) {
	for attempt := 1; attempt <= maxAddressAttempts; attempt++ {
		w := models.NewWallet(l.newAddress())

		err := l.store.CreateWallet(ctx, w)
		if errors.Is(err, fault.ErrWalletExists) {
			l.log.Warnf("address collision on attempt %d", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		l.log.Infof("registered wallet %s", w.Address)
		l.publish(ctx, events.TopicWalletRegistered, events.WalletRegistered{
			Envelope:    events.NewEnvelope(w.Address, l.now()),
			FlightScore: w.FlightScore,
		})
		return w, nil
	}
	return nil, fmt.Errorf("%w: no free address after %d attempts", fault.ErrWalletExists, maxAddressAttempts)
}

// Authenticate logs in with an address typed by the user
func (l *Ledger) Authenticate(ctx context.Context, address string) (*models.Wallet, error) {
	address = strings.TrimSpace(address)
	if !models.ValidAddress(address) {
		return nil, fault.ErrInvalidAddress
	}
	return l.store.GetWallet(ctx, address)
}

// LaunchFlight pays the mining cost and returns the flight to land later.
// A wallet that cannot afford the cost is left untouched
func (l *Ledger) LaunchFlight(ctx context.Context, address string) (*models.Flight, error) {
	mu := l.getAccountLock(address)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.UpdateWallet(ctx, address, func(w *models.Wallet) error {
		history.Ensure(w)
		if !l.rules.CanAfford(w.Balance) {
			return fault.ErrInsufficientFunds
		}
		w.Balance = w.Balance.Sub(l.rules.MineCost)
		return nil
	})
	if err != nil {
		return nil, err
	}

	flight := &models.Flight{
		ID:         uuid.New().String(),
		Address:    w.Address,
		Cost:       l.rules.MineCost,
		Balance:    w.Balance,
		LaunchedAt: l.now(),
	}
	l.flights.Set(flight.ID, flight, cache.DefaultExpiration)

	l.log.Debugf("flight %s launched by %s", flight.ID, address)
	l.publish(ctx, events.TopicFlightLaunched, events.FlightLaunched{
		Envelope: events.NewEnvelope(address, flight.LaunchedAt),
		FlightID: flight.ID,
		Cost:     flight.Cost,
		Balance:  flight.Balance,
	})
	return flight, nil
}

// LandFlight resolves a launched flight. A flight lands once; an unknown,
// expired or already landed flight is ErrFlightNotFound
func (l *Ledger) LandFlight(ctx context.Context, flightID string) (*models.MiningResult, error) {
	item, found := l.flights.Get(flightID)
	if !found {
		return nil, fault.ErrFlightNotFound
	}
	flight := item.(*models.Flight)

	mu := l.getAccountLock(flight.Address)
	mu.Lock()
	defer mu.Unlock()

	// another caller may have landed it while we waited for the lock
	if _, found := l.flights.Get(flightID); !found {
		return nil, fault.ErrFlightNotFound
	}
	l.flights.Delete(flightID)

	var outcome reward.Outcome
	w, err := l.store.UpdateWallet(ctx, flight.Address, func(w *models.Wallet) error {
		history.Ensure(w)
		outcome = l.rules.Resolve(l.src, w.FlightScore)
		if outcome.Success {
			w.Balance = w.Balance.Add(outcome.Reward)
			w.FlightScore = w.FlightScore.Add(l.rules.FlightScoreIncrease)
			history.Record(w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.MiningResult{
		FlightID:    flightID,
		Address:     w.Address,
		Success:     outcome.Success,
		Chance:      outcome.Chance,
		Reward:      outcome.Reward,
		FlightScore: w.FlightScore,
		Balance:     w.Balance,
	}

	l.log.Infof("flight %s landed for %s: success %t reward %s", flightID, w.Address, result.Success, result.Reward)
	l.publish(ctx, events.TopicFlightLanded, events.FlightLanded{
		Envelope:    events.NewEnvelope(w.Address, l.now()),
		FlightID:    flightID,
		Success:     result.Success,
		Chance:      result.Chance,
		Reward:      result.Reward,
		FlightScore: result.FlightScore,
		Balance:     result.Balance,
	})
	return result, nil
}

// CompleteDailyTask pays the fixed task reward; the score is never touched
func (l *Ledger) CompleteDailyTask(ctx context.Context, address string) (*models.TaskResult, error) {
	mu := l.getAccountLock(address)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.UpdateWallet(ctx, address, func(w *models.Wallet) error {
		w.Balance = w.Balance.Add(l.rules.DailyTaskReward)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.TaskResult{
		Address: w.Address,
		Task:    reward.PickTask(l.src),
		Reward:  l.rules.DailyTaskReward,
		Balance: w.Balance,
	}

	l.log.Infof("task completed by %s: %s", w.Address, result.Task)
	l.publish(ctx, events.TopicTaskCompleted, events.TaskCompleted{
		Envelope: events.NewEnvelope(w.Address, l.now()),
		Task:     result.Task,
		Reward:   result.Reward,
		Balance:  result.Balance,
	})
	return result, nil
}

// History returns the newest limit scores (0 means the configured window),
// persisting a backfilled history the first time it is viewed
func (l *Ledger) History(ctx context.Context, address string, limit int) (*models.HistoryView, error) {
	if limit < 0 {
		return nil, fault.ErrInvalidLimit
	}
	if limit == 0 {
		limit = l.window
	}

	mu := l.getAccountLock(address)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.GetWallet(ctx, address)
	if err != nil {
		return nil, err
	}

	if w.History == nil {
		w, err = l.store.UpdateWallet(ctx, address, func(w *models.Wallet) error {
			history.Ensure(w)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	view := history.Recent(w, limit)
	return &view, nil
}

// AttemptMining is one complete mining round with no delay between launch
// and landing
func AttemptMining(ctx context.Context, svc interfaces.WalletService, address string) (*models.MiningResult, error) {
	flight, err := svc.LaunchFlight(ctx, address)
	if err != nil {
		return nil, err
	}
	return svc.LandFlight(ctx, flight.ID)
}

func (l *Ledger) newAddress() string {
	var b strings.Builder
	b.Grow(models.AddressLength)
	for i := 0; i < models.AddressLength; i++ {
		b.WriteByte(addressAlphabet[l.addrSrc.Intn(len(addressAlphabet))])
	}
	return b.String()
}

// events are best effort: a failed publish is logged, never returned
func (l *Ledger) publish(ctx context.Context, topic string, event any) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, topic, event); err != nil {
		l.log.Warnf("publish %s failed: %s", topic, err)
	}
}

var _ interfaces.WalletService = (*Ledger)(nil)
