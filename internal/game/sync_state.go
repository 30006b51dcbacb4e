// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/engine"
	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/internal/models"
)

// ObservedState is what the presentation client may see. The computer's
// hand is reduced to its size.
type ObservedState struct {
	GameID      uuid.UUID     `json:"gameId"`
	Version     int           `json:"version"`
	Status      engine.Phase  `json:"status"`
	CurrentTurn engine.Turn   `json:"currentTurn"`
	WildSuit    *engine.Suit  `json:"wildSuit"`
	Winner      *engine.Turn  `json:"winner"`
	DeckSize    int           `json:"deckSize"`
	DiscardSize int           `json:"discardSize"`
	DiscardTop  *models.Card  `json:"discardTop,omitempty"`
	PlayerHand  []models.Card `json:"playerHand"`
	AIHandSize  int           `json:"aiHandSize"`
}

// Snapshot returns the observable view of the live state.
func (g *CrazyEightsGame) Snapshot() ObservedState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.observedState()
}

// observedState builds the client view. Playable flags are set only while
// the human may act. Assumes lock is held by caller.
func (g *CrazyEightsGame) observedState() ObservedState {
	s := g.state
	obs := ObservedState{
		GameID:      g.ID,
		Version:     g.version,
		Status:      s.Phase,
		CurrentTurn: s.Turn,
		DeckSize:    len(s.Deck),
		DiscardSize: len(s.Discard),
		PlayerHand:  make([]models.Card, len(s.PlayerHand)),
		AIHandSize:  len(s.AIHand),
	}
	if s.WildSuit != nil {
		w := *s.WildSuit
		obs.WildSuit = &w
	}
	if s.Winner != nil {
		w := *s.Winner
		obs.Winner = &w
	}
	if top, ok := s.TopDiscard(); ok {
		c := models.CardFromEngine(top)
		obs.DiscardTop = &c
	}

	canAct := s.Phase == engine.PhasePlaying && s.Turn == engine.TurnPlayer
	for i, c := range s.PlayerHand {
		obs.PlayerHand[i] = models.CardFromEngine(c)
		obs.PlayerHand[i].Playable = canAct && engine.IsPlayable(c, s)
	}
	return obs
}
