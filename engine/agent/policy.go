// Package agent implements the computer opponent's decision policy.
package agent

import (
	engine "github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/engine"
)

// FallbackSuit is named when the hand gives no suit signal.
const FallbackSuit = engine.SuitHearts

// Action is the opponent's chosen move: either Draw, or play Card naming
// Suit when Card is an eight.
type Action struct {
	Draw bool
	Card engine.Card
	Suit *engine.Suit
}

// ChooseAction picks the computer's move for g. It never stalls: with no
// playable card it draws.
//
// The policy is greedy. The first playable non-eight in hand order is
// preferred; eights are held back until nothing else fits.
func ChooseAction(g engine.GameState) Action {
	playable := engine.PlayableCards(g, engine.TurnAI)
	if len(playable) == 0 {
		return Action{Draw: true}
	}
	choice := playable[0]
	for _, c := range playable {
		if !c.IsWild() {
			choice = c
			break
		}
	}
	if !choice.IsWild() {
		return Action{Card: choice}
	}
	suit := ChooseSuit(withoutCard(g.AIHand, choice))
	return Action{Card: choice, Suit: &suit}
}

// ChooseSuit returns the suit held most often in hand. Ties go to the
// earlier suit in canonical order; an empty hand yields FallbackSuit.
func ChooseSuit(hand engine.Hand) engine.Suit {
	counts := hand.CountBySuit()
	best, bestN := FallbackSuit, 0
	for _, s := range engine.Suits {
		if counts[s] > bestN {
			best, bestN = s, counts[s]
		}
	}
	return best
}

func withoutCard(h engine.Hand, c engine.Card) engine.Hand {
	out := make(engine.Hand, 0, len(h))
	for _, hc := range h {
		if hc.ID != c.ID {
			out = append(out, hc)
		}
	}
	return out
}
