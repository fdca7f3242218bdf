// Package catalog holds the static idol card and scenario template
// collections. Everything is read-only after New returns.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	game_constants "idoldraft/constants/game"
	"idoldraft/models"
)

//go:embed idol_cards.json
var idolCardsJSON []byte

//go:embed scenarios.json
var scenariosJSON []byte

type Catalog struct {
	cards        []models.IdolCard
	cardsByID    map[string]models.IdolCard
	deckTemplate []string
	scenarios    []models.Scenario
}

// New parses the embedded seeds and expands the idol set with numbered
// variants until the deck can cover a full lobby drafting every pick.
func New() (*Catalog, error) {
	var seed []models.IdolCard
	if err := json.Unmarshal(idolCardsJSON, &seed); err != nil {
		return nil, fmt.Errorf("parsing idol card seed: %w", err)
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("idol card seed is empty")
	}

	var scenarios []models.Scenario
	if err := json.Unmarshal(scenariosJSON, &scenarios); err != nil {
		return nil, fmt.Errorf("parsing scenario seed: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("scenario seed is empty")
	}

	c := &Catalog{
		cardsByID: make(map[string]models.IdolCard),
		scenarios: scenarios,
	}

	variant := 1
	for len(c.deckTemplate) < game_constants.RequiredDeckSize {
		for _, base := range seed {
			if len(c.deckTemplate) >= game_constants.RequiredDeckSize {
				break
			}

			card := base
			if variant > 1 {
				card.ID = fmt.Sprintf("%s-%d", base.ID, variant)
				card.Name = fmt.Sprintf("%s %d", base.Name, variant)
			}

			if _, seen := c.cardsByID[card.ID]; !seen {
				c.cardsByID[card.ID] = card
				c.cards = append(c.cards, card)
			}
			c.deckTemplate = append(c.deckTemplate, card.ID)
		}
		variant++
	}

	return c, nil
}

// Cards returns a copy of every card in the library, deck order.
func (c *Catalog) Cards() []models.IdolCard {
	out := make([]models.IdolCard, len(c.cards))
	copy(out, c.cards)
	return out
}

// CardByID looks up a single card.
func (c *Catalog) CardByID(cardID string) (models.IdolCard, bool) {
	card, ok := c.cardsByID[cardID]
	return card, ok
}

// DeckTemplate returns a fresh draft pool.
func (c *Catalog) DeckTemplate() []string {
	out := make([]string, len(c.deckTemplate))
	copy(out, c.deckTemplate)
	return out
}

// ScenarioTemplates returns deep clones, so per-game role assignment never
// touches the shared templates.
func (c *Catalog) ScenarioTemplates() []models.Scenario {
	out := make([]models.Scenario, len(c.scenarios))
	for i := range c.scenarios {
		out[i] = *c.scenarios[i].Clone()
	}
	return out
}
