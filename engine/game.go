// Package engine implements the Crazy Eights rules for one human player
// against the computer.
//
// Every transition is a pure function from one GameState to the next. The
// returned state never shares slice storage with its input, so any state a
// caller holds on to stays a valid snapshot.
package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// HandSize is the number of cards dealt to each side.
const HandSize = 8

// GameState is the complete state of one Crazy Eights game.
type GameState struct {
	Deck       Deck   // remaining draw pile; the last element is the top
	PlayerHand Hand   // human hand
	AIHand     Hand   // computer hand
	Discard    []Card // play history; the last element is the discard face
	Turn       Turn
	Phase      Phase
	WildSuit   *Suit // suit named by the most recent eight, if any
	Winner     *Turn // set iff Phase == PhaseGameOver
}

// NewGame shuffles a fresh deck with rng and deals it.
func NewGame(rng *rand.Rand) GameState {
	g, err := Deal(ShuffleDeck(NewDeck(), rng))
	if err != nil {
		// A full deck always leaves a non-eight after the deal.
		panic(fmt.Sprintf("engine: dealing a full deck: %v", err))
	}
	return g
}

// Deal distributes HandSize cards to each side, alternating from the top of
// the pile, then turns up the first non-eight from the top as the opening
// discard. Eights passed over stay in the pile in their original order.
// The input deck is not modified.
func Deal(deck Deck) (GameState, error) {
	if len(deck) < 2*HandSize+1 {
		return GameState{}, fmt.Errorf("deal: deck has %d cards, need at least %d", len(deck), 2*HandSize+1)
	}
	pile := slices.Clone(deck)

	g := GameState{
		PlayerHand: make(Hand, 0, HandSize),
		AIHand:     make(Hand, 0, HandSize),
		Phase:      PhaseDealing,
	}
	for i := 0; i < HandSize; i++ {
		g.PlayerHand = append(g.PlayerHand, pile[len(pile)-1])
		g.AIHand = append(g.AIHand, pile[len(pile)-2])
		pile = pile[:len(pile)-2]
	}

	open := -1
	for i := len(pile) - 1; i >= 0; i-- {
		if !pile[i].IsWild() {
			open = i
			break
		}
	}
	if open < 0 {
		return GameState{}, ErrNoOpeningCard
	}
	g.Discard = []Card{pile[open]}
	g.Deck = slices.Delete(pile, open, open+1)

	g.Phase = PhasePlaying
	g.Turn = TurnPlayer
	return g, nil
}

// TopDiscard returns the discard face, or false while no card is turned up.
func (g GameState) TopDiscard() (Card, bool) {
	if len(g.Discard) == 0 {
		return Card{}, false
	}
	return g.Discard[len(g.Discard)-1], true
}

// Hand returns the hand of the given side.
func (g GameState) Hand(t Turn) Hand {
	if t == TurnAI {
		return g.AIHand
	}
	return g.PlayerHand
}

// IsOver reports whether the game has a winner.
func (g GameState) IsOver() bool { return g.Phase == PhaseGameOver }

// CardCount returns the number of cards across all four zones.
func (g GameState) CardCount() int {
	return len(g.Deck) + len(g.PlayerHand) + len(g.AIHand) + len(g.Discard)
}

// Clone returns a deep copy sharing no storage with g.
func (g GameState) Clone() GameState {
	out := g
	out.Deck = slices.Clone(g.Deck)
	out.PlayerHand = slices.Clone(g.PlayerHand)
	out.AIHand = slices.Clone(g.AIHand)
	out.Discard = slices.Clone(g.Discard)
	if g.WildSuit != nil {
		s := *g.WildSuit
		out.WildSuit = &s
	}
	if g.Winner != nil {
		w := *g.Winner
		out.Winner = &w
	}
	return out
}

// withHand returns a copy of g with the given side's hand replaced.
func (g GameState) withHand(t Turn, h Hand) GameState {
	if t == TurnAI {
		g.AIHand = h
	} else {
		g.PlayerHand = h
	}
	return g
}
