package sqlite

import "gorm.io/gorm"

// SQLiteWallet is one wallet row; amounts are kept as decimal strings so no
// precision is lost to SQLite's REAL type
type SQLiteWallet struct {
	gorm.Model
	Address     string  `gorm:"uniqueIndex"`
	Balance     string
	FlightScore string
	History     *string // JSON array, NULL until backfilled
}
