package models

import "time"

// User represents a user account.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// HistoryEntry is one append-only search history row. The recency-deduplicated
// five-symbol view is computed at read time, never stored.
type HistoryEntry struct {
	Username string    `json:"username"`
	Symbol   string    `json:"symbol"`
	Datetime time.Time `json:"datetime"`
}

// FavoriteEntry is one favorite symbol row. (username, symbol) is unique.
type FavoriteEntry struct {
	Username string    `json:"username"`
	Symbol   string    `json:"symbol"`
	AddedAt  time.Time `json:"added_at"`
}

// HistoryLimit caps the recent-symbol view per user.
const HistoryLimit = 5
