// Package reward holds the Proof-of-Flight economics: what a flight costs,
// how likely it is to land and what it pays
package reward

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/cooin-ledger/internal/random"
)

// payouts are rounded to this many decimal places
const payoutPlaces = 8

// Rules are the tunable constants of the simulation
type Rules struct {
	MineCost            decimal.Decimal
	BaseMineReward      decimal.Decimal
	RewardSpread        float64 // payout factor is uniform in [1-spread, 1+spread]
	FlightScoreIncrease decimal.Decimal
	BaseSuccessChance   float64
	MaxSuccessChance    float64
	ScoreBonusDivisor   float64
	DailyTaskReward     decimal.Decimal
}

// Outcome is the resolved result of one flight
type Outcome struct {
	Success bool
	Chance  float64
	Reward  decimal.Decimal
}

// DefaultRules returns the standard Cooin network parameters
func DefaultRules() Rules {
	return Rules{
		MineCost:            decimal.RequireFromString("0.005"),
		BaseMineReward:      decimal.NewFromInt(1),
		RewardSpread:        0.1,
		FlightScoreIncrease: decimal.RequireFromString("0.01"),
		BaseSuccessChance:   0.6,
		MaxSuccessChance:    0.95,
		ScoreBonusDivisor:   10,
		DailyTaskReward:     decimal.RequireFromString("0.5"),
	}
}

// CanAfford reports whether balance covers one flight
func (r Rules) CanAfford(balance decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(r.MineCost)
}

// SuccessChance is a linear bonus over the base chance for every point of
// score above the initial 1.0, capped at MaxSuccessChance and never negative
func (r Rules) SuccessChance(score decimal.Decimal) float64 {
	bonus := 0.0
	if r.ScoreBonusDivisor > 0 {
		bonus = (score.InexactFloat64() - 1.0) / r.ScoreBonusDivisor
	}
	chance := math.Min(r.MaxSuccessChance, r.BaseSuccessChance+bonus)
	return math.Max(0, chance)
}

// Payout draws a reward of BaseMineReward scaled by a uniform factor
func (r Rules) Payout(src random.Source) decimal.Decimal {
	factor := random.Uniform(src, 1-r.RewardSpread, 1+r.RewardSpread)
	return r.BaseMineReward.Mul(decimal.NewFromFloat(factor)).Round(payoutPlaces)
}

// Resolve decides the outcome of a flight for a wallet with the given score.
// The success draw always happens first so a fixed source is predictable
func (r Rules) Resolve(src random.Source, score decimal.Decimal) Outcome {
	chance := r.SuccessChance(score)
	if src.Float64() >= chance {
		return Outcome{Chance: chance, Reward: decimal.Zero}
	}
	return Outcome{Success: true, Chance: chance, Reward: r.Payout(src)}
}

// Tasks are the daily pigeon chores a task reward is paid for
var Tasks = []string{
	"Scouting the high-rise for fresh seeds",
	"Delivering a non-urgent message (local)",
	"Performing a routine maintenance peck on the Roost node",
	"Gathering materials for a community nest",
}

// PickTask chooses one of the daily tasks
func PickTask(src random.Source) string {
	return Tasks[src.Intn(len(Tasks))]
}
