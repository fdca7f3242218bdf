package store

import (
	"fmt"
	"math/rand/v2"

	"idoldraft/models"
)

// GetScenarioState returns the current round snapshot. Read-only.
func (s *GameStore) GetScenarioState(code string) (*models.ScenarioSnapshot, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	if gameErr := scenarioPhaseGuard(game); gameErr != nil {
		return nil, gameErr
	}
	return scenarioSnapshotLocked(game), nil
}

// AssignScenarioRole records one player's idol for one role of the active
// scenario.
func (s *GameStore) AssignScenarioRole(code, playerID, roleID, idolID string) (*models.ScenarioSnapshot, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	if game.Status == models.StatusReveal {
		return nil, models.NewGameError(models.ErrScenarioRevealed,
			"The scenario is already revealed. Wait for the next round.")
	}
	if game.Status != models.StatusScenario {
		return nil, models.NewGameError(models.ErrInvalidState,
			"Role assignment is only possible during a scenario round.")
	}

	scenario := game.CurrentScenario()
	if scenario == nil {
		return nil, models.NewGameError(models.ErrScenarioMissing,
			"No scenario is loaded for this game.")
	}

	role := scenario.RoleByID(roleID)
	if role == nil {
		return nil, models.NewGameError(models.ErrInvalidRole,
			"That role is not part of the current scenario.")
	}

	if game.PlayerByID(playerID) == nil {
		return nil, models.NewGameError(models.ErrInvalidPlayer,
			"That player is not part of this game.")
	}

	if game.SubmissionState[playerID] == models.SubmissionSubmitted {
		return nil, models.NewGameError(models.ErrScenarioLocked,
			"You already submitted your selections for this scenario.")
	}

	if !playerOwnsIdol(game, playerID, idolID) {
		return nil, models.NewGameError(models.ErrInvalidIdol,
			"You can only assign idols from your own drafted roster.")
	}

	if !role.AllowDuplicateIdols {
		for _, other := range scenario.Roles {
			if other.ID == role.ID || other.AllowDuplicateIdols {
				continue
			}
			if game.RoleAssignments[other.ID][playerID] == idolID {
				return nil, models.NewGameError(models.ErrIdolInUse,
					fmt.Sprintf("That idol is already assigned to %s.", other.Label))
			}
		}
	}

	byPlayer := game.RoleAssignments[role.ID]
	if byPlayer == nil {
		byPlayer = make(map[string]string)
		game.RoleAssignments[role.ID] = byPlayer
	}
	byPlayer[playerID] = idolID
	game.ScenarioUpdatedAt = nowMillis()

	s.publishLocked(game)
	return scenarioSnapshotLocked(game), nil
}

// SubmitScenarioSelections locks in a player's assignments. The last pending
// submission flips the round to reveal. Resubmitting is a no-op, so client
// retries are harmless.
func (s *GameStore) SubmitScenarioSelections(code, playerID string) (*models.ScenarioSnapshot, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	if game.PlayerByID(playerID) == nil {
		return nil, models.NewGameError(models.ErrInvalidPlayer,
			"That player is not part of this game.")
	}

	// A submit racing the reveal it triggered is still a success
	if game.Status == models.StatusReveal && game.SubmissionState[playerID] == models.SubmissionSubmitted {
		return scenarioSnapshotLocked(game), nil
	}
	if game.Status != models.StatusScenario {
		return nil, models.NewGameError(models.ErrInvalidState,
			"Submissions are only possible during a scenario round.")
	}

	scenario := game.CurrentScenario()
	if scenario == nil {
		return nil, models.NewGameError(models.ErrScenarioMissing,
			"No scenario is loaded for this game.")
	}

	if game.SubmissionState[playerID] == models.SubmissionSubmitted {
		return scenarioSnapshotLocked(game), nil
	}

	for _, role := range scenario.Roles {
		if game.RoleAssignments[role.ID][playerID] == "" {
			return nil, models.NewGameError(models.ErrScenarioPartial,
				fmt.Sprintf("Assign an idol to %s before submitting.", role.Label))
		}
	}

	game.SubmissionState[playerID] = models.SubmissionSubmitted
	game.ScenarioUpdatedAt = nowMillis()

	if allSubmitted(game) {
		game.Status = models.StatusReveal
		game.ScenarioRevealedAt = nowMillis()
	}

	s.publishLocked(game)
	return scenarioSnapshotLocked(game), nil
}

// AdvanceScenario moves a revealed round forward (advance=true) or replays
// the current scenario with fresh assignments. When no scenarios remain, the
// game is marked complete.
func (s *GameStore) AdvanceScenario(code string, advance bool) (*models.ScenarioSnapshot, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	if game.Status == models.StatusComplete {
		return nil, models.NewGameError(models.ErrScenarioComplete,
			"Every scenario has already been played.")
	}
	if game.Status != models.StatusReveal && !(game.Status == models.StatusScenario && !advance) {
		return nil, models.NewGameError(models.ErrInvalidState,
			"The round has to be revealed before moving on.")
	}

	if advance {
		if game.CurrentScenarioIndex+1 >= len(game.Scenarios) {
			game.Status = models.StatusComplete
			game.CompletedAt = nowMillis()
			game.ScenarioUpdatedAt = nowMillis()

			s.publishLocked(game)
			return scenarioSnapshotLocked(game), nil
		}
		game.CurrentScenarioIndex++
	}

	resetScenarioRoundLocked(game)
	game.Status = models.StatusScenario

	s.publishLocked(game)
	return scenarioSnapshotLocked(game), nil
}

// enterScenarioPhaseLocked runs once the draft exhausts its turn order. The
// scenario deck is shuffled a single time per game and persists across
// rounds.
func (s *GameStore) enterScenarioPhaseLocked(game *models.Game) {
	if len(game.Scenarios) == 0 {
		scenarios := s.catalog.ScenarioTemplates()
		rand.Shuffle(len(scenarios), func(i, j int) {
			scenarios[i], scenarios[j] = scenarios[j], scenarios[i]
		})
		game.Scenarios = scenarios
		game.CurrentScenarioIndex = 0
	}

	game.Status = models.StatusScenario
	resetScenarioRoundLocked(game)
}

// resetScenarioRoundLocked clears assignments and submissions for the active
// scenario: one empty assignment map per role, every current player pending.
func resetScenarioRoundLocked(game *models.Game) {
	game.RoleAssignments = make(models.RoleAssignments)
	if scenario := game.CurrentScenario(); scenario != nil {
		for _, role := range scenario.Roles {
			game.RoleAssignments[role.ID] = make(map[string]string)
		}
	}

	game.SubmissionState = make(map[string]models.SubmissionStatus, len(game.Players))
	for _, player := range game.Players {
		game.SubmissionState[player.ID] = models.SubmissionPending
	}

	game.ScenarioRevealedAt = 0
	game.ScenarioUpdatedAt = nowMillis()
}

func scenarioPhaseGuard(game *models.Game) *models.GameError {
	switch game.Status {
	case models.StatusScenario, models.StatusReveal:
		if game.CurrentScenario() == nil {
			return models.NewGameError(models.ErrScenarioMissing,
				"No scenario is loaded for this game.")
		}
		return nil
	case models.StatusComplete:
		return models.NewGameError(models.ErrScenarioComplete,
			"Every scenario has already been played.")
	default:
		return models.NewGameError(models.ErrInvalidState,
			"The scenario round hasn't started yet.")
	}
}

func playerOwnsIdol(game *models.Game, playerID, idolID string) bool {
	for _, picked := range game.Picks[playerID] {
		if picked == idolID {
			return true
		}
	}
	return false
}

func allSubmitted(game *models.Game) bool {
	for _, player := range game.Players {
		if game.SubmissionState[player.ID] != models.SubmissionSubmitted {
			return false
		}
	}
	return true
}
