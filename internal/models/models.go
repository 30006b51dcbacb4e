// Package models holds the wire shapes exchanged with presentation clients.
package models

import (
	"github.com/google/uuid"
	engine "github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/engine"
)

// Card is the client view of a single card.
type Card struct {
	ID       uuid.UUID `json:"id"`
	Rank     string    `json:"rank"`
	Suit     string    `json:"suit"`
	Playable bool      `json:"playable,omitempty"`
}

// CardFromEngine converts an engine card to its wire form.
func CardFromEngine(c engine.Card) Card {
	return Card{ID: c.ID, Rank: c.Rank.String(), Suit: c.Suit.String()}
}

// Inbound action types sent by the client.
const (
	ActionInit       = "action_init"
	ActionPlay       = "action_play"
	ActionDraw       = "action_draw"
	ActionSelectSuit = "action_select_suit"
)

// GameAction is an inbound request from the human player.
type GameAction struct {
	ActionType string        `json:"type"`
	Payload    ActionPayload `json:"payload"`
}

// ActionPayload carries the optional arguments of a GameAction.
type ActionPayload struct {
	CardID uuid.UUID `json:"id"`
	Suit   string    `json:"suit,omitempty"`
}
