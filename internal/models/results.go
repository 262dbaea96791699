package models

import "github.com/shopspring/decimal"

// MiningResult is the outcome of landing a flight
type MiningResult struct {
	FlightID    string          `json:"flight_id"`
	Address     string          `json:"address"`
	Success     bool            `json:"success"`
	Chance      float64         `json:"chance"`
	Reward      decimal.Decimal `json:"reward"`
	FlightScore decimal.Decimal `json:"flight_score"`
	Balance     decimal.Decimal `json:"balance"`
}

// TaskResult is the outcome of a daily task
type TaskResult struct {
	Address string          `json:"address"`
	Task    string          `json:"task"`
	Reward  decimal.Decimal `json:"reward"`
	Balance decimal.Decimal `json:"balance"`
}

// HistoryEntry is one displayed flight score
type HistoryEntry struct {
	Index  int             `json:"index"` // 1-based position in the full history
	Score  decimal.Decimal `json:"score"`
	Latest bool            `json:"latest"`
}

// HistoryView is the displayed window of a wallet's score history
type HistoryView struct {
	Address string         `json:"address"`
	Total   int            `json:"total"`
	Entries []HistoryEntry `json:"entries"`
}
