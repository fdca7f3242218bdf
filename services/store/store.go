// Package store is the single in-process authority for game state. It owns
// the code -> game registry, applies every state transition under a per-game
// lock, and publishes one broadcast update per committed mutation.
package store

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	game_constants "idoldraft/constants/game"
	"idoldraft/models"
	"idoldraft/services/broadcast"
	"idoldraft/services/catalog"
	"idoldraft/utils"
)

// GameStore maps game codes to records. The outer lock guards the map, each
// entry has its own lock so mutations are serialized per code but games never
// block each other.
type GameStore struct {
	mu      sync.RWMutex
	games   map[string]*gameEntry
	catalog *catalog.Catalog
	hub     *broadcast.Hub
}

type gameEntry struct {
	mu   sync.Mutex
	game *models.Game
}

func New(cat *catalog.Catalog, hub *broadcast.Hub) *GameStore {
	return &GameStore{
		games:   make(map[string]*gameEntry),
		catalog: cat,
		hub:     hub,
	}
}

// GetGame returns a deep copy of the game with the given code.
func (s *GameStore) GetGame(code string) (*models.Game, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.game.Clone(), nil
}

// ListCards returns the full idol catalog.
func (s *GameStore) ListCards() []models.IdolCard {
	return s.catalog.Cards()
}

// Codes enumerates every registered game code, sorted.
func (s *GameStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.games))
	for code := range s.games {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Clear drops every game. Used by tests and the admin reset.
func (s *GameStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = make(map[string]*gameEntry)
}

func (s *GameStore) lookup(code string) (*gameEntry, *models.GameError) {
	normalized := utils.NormalizeCode(code)

	s.mu.RLock()
	entry, ok := s.games[normalized]
	s.mu.RUnlock()

	if !ok {
		return nil, models.NewGameError(models.ErrNotFound, "Lobby not found.")
	}
	return entry, nil
}

// publishLocked pushes one update for the game. Callers hold the entry lock,
// which keeps publish order aligned with commit order.
func (s *GameStore) publishLocked(g *models.Game) {
	s.hub.Publish(g.Code, s.buildUpdateLocked(g))
}

// buildUpdateLocked assembles the broadcast payload from a locked game.
func (s *GameStore) buildUpdateLocked(g *models.Game) *broadcast.Update {
	update := &broadcast.Update{
		Game:  g.Clone(),
		Cards: s.catalog.Cards(),
	}
	// Complete games keep the last reveal view in the payload
	if g.Status == models.StatusScenario || g.Status == models.StatusReveal || g.Status == models.StatusComplete {
		update.Scenario = scenarioSnapshotLocked(g)
	}
	return update
}

// BuildUpdate returns the current broadcast payload for a code, used by the
// transports to seed a fresh subscriber.
func (s *GameStore) BuildUpdate(code string) (*broadcast.Update, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.buildUpdateLocked(entry.game), nil
}

func scenarioSnapshotLocked(g *models.Game) *models.ScenarioSnapshot {
	status := g.Status
	if status == models.StatusComplete {
		// Terminal sessions keep the last reveal view
		status = models.StatusReveal
	}

	snapshot := &models.ScenarioSnapshot{
		Code:                 g.Code,
		Scenario:             g.CurrentScenario().Clone(),
		CurrentScenarioIndex: g.CurrentScenarioIndex,
		TotalScenarios:       len(g.Scenarios),
		RoleAssignments:      g.RoleAssignments.Clone(),
		SubmissionState:      make(map[string]models.SubmissionStatus, len(g.SubmissionState)),
		Status:               status,
		RevealedAt:           g.ScenarioRevealedAt,
		UpdatedAt:            g.ScenarioUpdatedAt,
	}
	for playerID, state := range g.SubmissionState {
		snapshot.SubmissionState[playerID] = state
	}
	return snapshot
}

func sanitizeName(name string) (string, *models.GameError) {
	trimmed := strings.TrimSpace(name)
	// Length limits count characters, not bytes, so multibyte names work
	if runes := utf8.RuneCountInString(trimmed); runes < game_constants.NameMinLength || runes > game_constants.NameMaxLength {
		return "", models.NewGameError(models.ErrInvalidName,
			fmt.Sprintf("Display names must be between %d and %d characters.",
				game_constants.NameMinLength, game_constants.NameMaxLength))
	}
	return trimmed, nil
}

// generateCodeLocked draws a fresh code, retrying on collision. Callers hold
// the store write lock.
func (s *GameStore) generateCodeLocked() string {
	alphabet := game_constants.CodeAlphabet

	for attempt := 0; attempt < game_constants.MaxCodeAttempts; attempt++ {
		chars := make([]byte, game_constants.CodeLength)
		for i := range chars {
			chars[i] = alphabet[rand.IntN(len(alphabet))]
		}
		code := string(chars)
		if _, taken := s.games[code]; !taken {
			return code
		}
	}

	// Fall back to a uuid slice if we somehow collide too often
	fallback := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fallback[:game_constants.CodeLength]
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
