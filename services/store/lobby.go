package store

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	game_constants "idoldraft/constants/game"
	"idoldraft/models"
	"idoldraft/utils"
)

// CreateGame registers a new lobby with the creator as its first player.
func (s *GameStore) CreateGame(displayName string) (*models.Game, *models.Player, *models.GameError) {
	name, gameErr := sanitizeName(displayName)
	if gameErr != nil {
		return nil, nil, gameErr
	}

	player := models.Player{
		ID:        uuid.NewString(),
		Name:      name,
		IsCreator: true,
		JoinedAt:  nowMillis(),
	}

	s.mu.Lock()
	code := s.generateCodeLocked()
	game := &models.Game{
		ID:               uuid.NewString(),
		Code:             code,
		Status:           models.StatusLobby,
		CreatorID:        player.ID,
		Players:          []models.Player{player},
		TurnOrder:        []string{},
		ActivePickIndex:  -1,
		Picks:            map[string][]string{player.ID: {}},
		AvailableCardIDs: s.catalog.DeckTemplate(),
		CreatedAt:        nowMillis(),
	}
	entry := &gameEntry{game: game}
	s.games[code] = entry
	s.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	s.publishLocked(game)
	return game.Clone(), &player, nil
}

// JoinGame adds a player to an open lobby.
func (s *GameStore) JoinGame(code, displayName string) (*models.Game, *models.Player, *models.GameError) {
	normalized := utils.NormalizeCode(code)
	if !utils.IsValidCode(normalized) {
		return nil, nil, models.NewGameError(models.ErrInvalidCode,
			"Game code must be six characters (letters or numbers).")
	}

	name, gameErr := sanitizeName(displayName)
	if gameErr != nil {
		return nil, nil, gameErr
	}

	entry, gameErr := s.lookup(normalized)
	if gameErr != nil {
		return nil, nil, models.NewGameError(models.ErrNotFound,
			"We couldn't find a lobby with that code.")
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	if game.Status != models.StatusLobby {
		return nil, nil, models.NewGameError(models.ErrLobbyLocked,
			"This lobby is already underway. Ask the host for a new code.")
	}

	if len(game.Players) >= game_constants.MaxPlayers {
		return nil, nil, models.NewGameError(models.ErrLobbyFull,
			"This lobby already has the maximum number of players.")
	}

	for _, existing := range game.Players {
		if strings.EqualFold(existing.Name, name) {
			return nil, nil, models.NewGameError(models.ErrDuplicateName,
				"Someone in this lobby is already using that display name.")
		}
	}

	player := models.Player{
		ID:       uuid.NewString(),
		Name:     name,
		JoinedAt: nowMillis(),
	}
	game.Players = append(game.Players, player)
	game.Picks[player.ID] = []string{}

	s.publishLocked(game)
	return game.Clone(), &player, nil
}

// StartDraft seats the players and builds the snake turn order. Only the
// lobby creator can start, and only with at least two players.
func (s *GameStore) StartDraft(code, requesterID string) (*models.Game, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	if game.Status != models.StatusLobby {
		return nil, models.NewGameError(models.ErrInvalidState,
			"Draft has already started for this lobby.")
	}
	if game.CreatorID != requesterID {
		return nil, models.NewGameError(models.ErrNotCreator,
			"Only the lobby creator can start the draft.")
	}
	if len(game.Players) < game_constants.MinPlayers {
		return nil, models.NewGameError(models.ErrNotEnoughPlayers,
			"You need at least two players before drafting can begin.")
	}

	assignSeats(game.Players)
	game.TurnOrder = buildSnakeOrder(game.Players)
	game.ActivePickIndex = 0
	game.Status = models.StatusDrafting
	game.LockedAt = nowMillis()

	s.publishLocked(game)
	return game.Clone(), nil
}

// SubmitPick removes a card from the pool for the player whose turn it is.
// The last pick of the draft moves the game into its first scenario round.
func (s *GameStore) SubmitPick(code, playerID, cardID string) (*models.Game, *models.GameError) {
	entry, gameErr := s.lookup(code)
	if gameErr != nil {
		return nil, gameErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game := entry.game

	if game.Status != models.StatusDrafting {
		if game.Status == models.StatusLobby {
			return nil, models.NewGameError(models.ErrInvalidState, "The draft hasn't started yet.")
		}
		return nil, models.NewGameError(models.ErrInvalidState, "The draft is already complete.")
	}

	if game.TurnOrder[game.ActivePickIndex] != playerID {
		return nil, models.NewGameError(models.ErrOutOfTurn, "It's not your turn to pick yet.")
	}

	poolIndex := -1
	for i, id := range game.AvailableCardIDs {
		if id == cardID {
			poolIndex = i
			break
		}
	}
	if poolIndex < 0 {
		return nil, models.NewGameError(models.ErrCardUnavailable, "That idol has already been drafted.")
	}

	game.AvailableCardIDs = append(game.AvailableCardIDs[:poolIndex], game.AvailableCardIDs[poolIndex+1:]...)
	game.Picks[playerID] = append(game.Picks[playerID], cardID)
	game.ActivePickIndex++

	if game.ActivePickIndex >= len(game.TurnOrder) {
		s.enterScenarioPhaseLocked(game)
	}

	s.publishLocked(game)
	return game.Clone(), nil
}

// assignSeats shuffles the players in place (Fisher-Yates) and numbers the
// seats 1..N.
func assignSeats(players []models.Player) {
	for i := len(players) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		players[i], players[j] = players[j], players[i]
	}
	for i := range players {
		players[i].Seat = i + 1
	}
}

// buildSnakeOrder lays out PicksPerPlayer rounds over the seated players,
// ascending on even rounds and descending on odd ones.
func buildSnakeOrder(players []models.Player) []string {
	order := make([]string, 0, len(players)*game_constants.PicksPerPlayer)
	for round := 0; round < game_constants.PicksPerPlayer; round++ {
		if round%2 == 0 {
			for i := 0; i < len(players); i++ {
				order = append(order, players[i].ID)
			}
		} else {
			for i := len(players) - 1; i >= 0; i-- {
				order = append(order, players[i].ID)
			}
		}
	}
	return order
}
