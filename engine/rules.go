package engine

import (
	"errors"
	"fmt"
)

// Precondition violations. A rejected transition leaves its input untouched.
var (
	ErrGameOver      = errors.New("game is already over")
	ErrWrongPhase    = errors.New("action not allowed in current phase")
	ErrNotYourTurn   = errors.New("not this side's turn")
	ErrCardNotInHand = errors.New("card is not in the acting hand")
	ErrIllegalPlay   = errors.New("card does not match the discard")
	ErrInvalidSuit   = errors.New("invalid suit")
	ErrSuitRequired  = errors.New("an eight played by the computer must name a suit")
	ErrNoOpeningCard = errors.New("no non-eight left to open the discard pile")
)

// IsPlayable reports whether card may be played on the current discard.
// Eights are always playable. Any other card must match the active suit
// (the wild suit if one is named, else the discard face's suit) or the
// discard face's rank.
func IsPlayable(card Card, g GameState) bool {
	if card.IsWild() {
		return true
	}
	top, ok := g.TopDiscard()
	if !ok {
		return false
	}
	target := top.Suit
	if g.WildSuit != nil {
		target = *g.WildSuit
	}
	return card.Suit == target || card.Rank == top.Rank
}

// PlayableCards returns the cards in t's hand that IsPlayable accepts, in
// hand order.
func PlayableCards(g GameState, t Turn) []Card {
	var out []Card
	for _, c := range g.Hand(t) {
		if IsPlayable(c, g) {
			out = append(out, c)
		}
	}
	return out
}

// ApplyPlay moves card from turn's hand onto the discard pile.
//
// Emptying the hand ends the game with turn as the winner. An eight played
// by the human without a suit suspends the turn in PhaseSelectingSuit. An
// eight with a suit names the wild suit; any other card clears it. In every
// other case the turn passes to the opponent.
func ApplyPlay(g GameState, card Card, turn Turn, suit *Suit) (GameState, error) {
	if err := checkTurn(g, turn); err != nil {
		return g, fmt.Errorf("play %s: %w", card, err)
	}
	hand := g.Hand(turn)
	idx := hand.Index(card.ID)
	if idx < 0 {
		return g, fmt.Errorf("play %s: %w", card, ErrCardNotInHand)
	}
	// Trust the hand's copy over the caller's.
	card = hand[idx]
	if !IsPlayable(card, g) {
		return g, fmt.Errorf("play %s: %w", card, ErrIllegalPlay)
	}
	if suit != nil && !suit.Valid() {
		return g, fmt.Errorf("play %s: %w", card, ErrInvalidSuit)
	}
	remaining := hand.without(idx)
	if card.IsWild() && suit == nil && turn == TurnAI && len(remaining) > 0 {
		return g, fmt.Errorf("play %s: %w", card, ErrSuitRequired)
	}

	next := g.Clone().withHand(turn, remaining)
	next.Discard = append(next.Discard, card)

	switch {
	case card.IsWild() && suit != nil:
		s := *suit
		next.WildSuit = &s
	case !card.IsWild():
		next.WildSuit = nil
	}

	if len(remaining) == 0 {
		w := turn
		next.Winner = &w
		next.Phase = PhaseGameOver
		return next, nil
	}
	if card.IsWild() && suit == nil {
		next.Phase = PhaseSelectingSuit
		return next, nil
	}
	next.Phase = PhasePlaying
	next.Turn = turn.Other()
	return next, nil
}

// ApplySuitSelection completes a suspended human eight: it names the wild
// suit and hands the turn to the computer.
func ApplySuitSelection(g GameState, suit Suit) (GameState, error) {
	if g.Phase != PhaseSelectingSuit {
		return g, fmt.Errorf("select suit %s in phase %s: %w", suit, g.Phase, ErrWrongPhase)
	}
	if !suit.Valid() {
		return g, fmt.Errorf("select suit: %w", ErrInvalidSuit)
	}
	next := g.Clone()
	next.WildSuit = &suit
	next.Phase = PhasePlaying
	next.Turn = TurnAI
	return next, nil
}

// ApplyDraw moves the top of the draw pile into turn's hand and passes the
// turn. With an empty pile nothing is drawn but the turn still passes.
// Drawing never changes the phase or the wild suit.
func ApplyDraw(g GameState, turn Turn) (GameState, error) {
	if err := checkTurn(g, turn); err != nil {
		return g, fmt.Errorf("draw: %w", err)
	}
	next := g.Clone()
	if top, ok := next.Deck.Top(); ok {
		next.Deck = next.Deck[:len(next.Deck)-1]
		next = next.withHand(turn, append(next.Hand(turn), top))
	}
	next.Turn = turn.Other()
	return next, nil
}

// checkTurn validates that turn may act in g.
func checkTurn(g GameState, turn Turn) error {
	switch {
	case g.Phase == PhaseGameOver:
		return ErrGameOver
	case g.Phase != PhasePlaying:
		return fmt.Errorf("phase %s: %w", g.Phase, ErrWrongPhase)
	case g.Turn != turn:
		return fmt.Errorf("%s acted on %s's turn: %w", turn, g.Turn, ErrNotYourTurn)
	}
	return nil
}
