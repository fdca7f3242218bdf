package models

// Error codes surfaced to clients. Grouped the way they are reported: input
// validation, state conflicts, lookups.
const (
	ErrInvalidName      = "invalid_name"
	ErrInvalidCode      = "invalid_code"
	ErrMissingContext   = "missing_context"
	ErrNotFound         = "not_found"
	ErrLobbyLocked      = "lobby_locked"
	ErrLobbyFull        = "lobby_full"
	ErrDuplicateName    = "duplicate_name"
	ErrInvalidState     = "invalid_state"
	ErrNotCreator       = "not_creator"
	ErrNotEnoughPlayers = "not_enough_players"
	ErrOutOfTurn        = "out_of_turn"
	ErrCardUnavailable  = "card_unavailable"
	ErrInvalidRole      = "invalid_role"
	ErrInvalidPlayer    = "invalid_player"
	ErrScenarioLocked   = "scenario_locked"
	ErrInvalidIdol      = "invalid_idol"
	ErrIdolInUse        = "idol_in_use"
	ErrScenarioRevealed = "scenario_revealed"
	ErrScenarioMissing  = "scenario_unavailable"
	ErrScenarioPartial  = "scenario_incomplete"
	ErrScenarioComplete = "scenario_complete"
)

// GameError is the typed failure every operation returns instead of panicking
// or half-applying a mutation.
type GameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *GameError) Error() string {
	return e.Message
}

func NewGameError(code, message string) *GameError {
	return &GameError{Code: code, Message: message}
}
