package game_constants

import "time"

const MaxPlayers = 6
const MinPlayers = 2
const PicksPerPlayer = 8

// Deck must be big enough for a full lobby to draft without exhausting the pool
const RequiredDeckSize = MaxPlayers * PicksPerPlayer

// Game code generation
const (
	CodeLength = 6
	// No 0/O/1/I so codes stay readable when shared out loud or on a screen
	CodeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	MaxCodeAttempts = 10
)

// Display name limits
const (
	NameMinLength = 2
	NameMaxLength = 20
)

// NOTE: 25s matches the engine.io default, slow mobile networks keep the
// connection alive without extra traffic
const KeepAliveInterval = 25 * time.Second
