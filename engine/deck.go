package engine

import (
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = NumSuits * NumRanks

// Deck is an ordered pile of cards. The draw pile is consumed from the end.
type Deck []Card

// Hand is the ordered set of cards held by one side, in insertion order.
type Hand []Card

// NewDeck builds all 52 cards in suit-major canonical order, each with a
// fresh id.
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, suit := range Suits {
		for rank := RankAce; rank <= RankKing; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// ShuffleDeck returns a uniformly random permutation of d. The input is
// not modified. A nil rng draws from the global source.
func ShuffleDeck(d Deck, rng *rand.Rand) Deck {
	out := slices.Clone(d)
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	// Fisher-Yates.
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Top returns the card at the draw end of the pile.
func (d Deck) Top() (Card, bool) {
	if len(d) == 0 {
		return Card{}, false
	}
	return d[len(d)-1], true
}

// Contains reports whether a card with the given id is in the pile.
func (d Deck) Contains(id uuid.UUID) bool {
	return slices.ContainsFunc(d, func(c Card) bool { return c.ID == id })
}

// Index returns the position of the card with the given id, or -1.
func (h Hand) Index(id uuid.UUID) int {
	return slices.IndexFunc(h, func(c Card) bool { return c.ID == id })
}

// Find returns the card with the given id.
func (h Hand) Find(id uuid.UUID) (Card, bool) {
	if i := h.Index(id); i >= 0 {
		return h[i], true
	}
	return Card{}, false
}

// without returns a copy of h with the card at i removed.
func (h Hand) without(i int) Hand {
	out := make(Hand, 0, len(h)-1)
	out = append(out, h[:i]...)
	return append(out, h[i+1:]...)
}

// CountBySuit tallies the hand per suit, indexed by Suit.
func (h Hand) CountBySuit() [NumSuits]int {
	var counts [NumSuits]int
	for _, c := range h {
		if c.Suit.Valid() {
			counts[c.Suit]++
		}
	}
	return counts
}
