package reward_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/cooin-ledger/internal/random"
	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
)

func TestSuccessChance(t *testing.T) {
	r := reward.DefaultRules()

	chances := []struct {
		score    string
		expected float64
	}{
		{"1", 0.6},
		{"1.01", 0.601},
		{"2", 0.7},
		{"4.5", 0.95},
		{"100", 0.95},
		{"0", 0.5},
	}
	for _, c := range chances {
		assert.InDelta(t, c.expected, r.SuccessChance(decimal.RequireFromString(c.score)), 1e-9, c.score)
	}
}

func TestSuccessChanceIsMonotonicAndCapped(t *testing.T) {
	r := reward.DefaultRules()

	previous := 0.0
	score := decimal.NewFromInt(1)
	for i := 0; i < 1000; i++ {
		chance := r.SuccessChance(score)
		assert.GreaterOrEqual(t, chance, previous, "score %s", score)
		assert.LessOrEqual(t, chance, 0.95, "score %s", score)
		previous = chance
		score = score.Add(r.FlightScoreIncrease)
	}
	assert.Equal(t, 0.95, previous)
}

func TestPayoutRange(t *testing.T) {
	r := reward.DefaultRules()
	low := decimal.RequireFromString("0.9")
	high := decimal.RequireFromString("1.1")

	src := random.NewSeeded(7)
	for i := 0; i < 500; i++ {
		p := r.Payout(src)
		assert.True(t, p.GreaterThanOrEqual(low) && p.LessThanOrEqual(high), "payout %s", p)
	}

	assert.True(t, r.Payout(random.NewSequence(0)).Equal(low))
	assert.True(t, r.Payout(random.NewSequence(0.5)).Equal(decimal.NewFromInt(1)))
}

func TestResolve(t *testing.T) {
	r := reward.DefaultRules()
	score := decimal.NewFromInt(1)

	win := r.Resolve(random.NewSequence(0.59, 0.5), score)
	assert.True(t, win.Success)
	assert.InDelta(t, 0.6, win.Chance, 1e-9)
	assert.True(t, win.Reward.Equal(decimal.NewFromInt(1)))

	loss := r.Resolve(random.NewSequence(0.6), score)
	assert.False(t, loss.Success)
	assert.True(t, loss.Reward.IsZero())
}

func TestCanAfford(t *testing.T) {
	r := reward.DefaultRules()
	assert.True(t, r.CanAfford(decimal.RequireFromString("0.005")))
	assert.True(t, r.CanAfford(decimal.RequireFromString("1")))
	assert.False(t, r.CanAfford(decimal.RequireFromString("0.0049")))
	assert.False(t, r.CanAfford(decimal.Zero))
}

func TestPickTask(t *testing.T) {
	assert.Equal(t, reward.Tasks[0], reward.PickTask(random.NewSequence(0)))
	assert.Equal(t, reward.Tasks[3], reward.PickTask(random.NewSequence(0.99)))
}
