package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Suit identifies one of the four French suits.
type Suit uint8

// Suit constants in canonical order. Deck construction and every suit
// tie-break follow this order.
const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// NumSuits is the number of suits in a standard deck.
const NumSuits = 4

// Suits lists every suit in canonical order.
var Suits = [NumSuits]Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "clubs"
	case SuitDiamonds:
		return "diamonds"
	case SuitHearts:
		return "hearts"
	case SuitSpades:
		return "spades"
	default:
		return "?"
	}
}

// Symbol returns the unicode pip for the suit.
func (s Suit) Symbol() string {
	switch s {
	case SuitClubs:
		return "♣"
	case SuitDiamonds:
		return "♦"
	case SuitHearts:
		return "♥"
	case SuitSpades:
		return "♠"
	default:
		return "?"
	}
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s < NumSuits }

// ParseSuit converts a suit name ("hearts") or initial ("H") to a Suit.
func ParseSuit(s string) (Suit, error) {
	switch s {
	case "clubs", "C", "c":
		return SuitClubs, nil
	case "diamonds", "D", "d":
		return SuitDiamonds, nil
	case "hearts", "H", "h":
		return SuitHearts, nil
	case "spades", "S", "s":
		return SuitSpades, nil
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}

// MarshalText encodes the suit by name.
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a suit name.
func (s *Suit) UnmarshalText(b []byte) error {
	parsed, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Rank is a card rank, ordered A,2..10,J,Q,K.
type Rank uint8

const (
	RankAce Rank = iota
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
)

// NumRanks is the number of ranks per suit.
const NumRanks = 13

// WildRank is the rank that may be played on anything and names a new suit.
const WildRank = RankEight

func (r Rank) String() string {
	switch r {
	case RankAce:
		return "A"
	case RankTen:
		return "10"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	}
	if r > RankAce && r < RankTen {
		return string(rune('1' + r))
	}
	return "?"
}

// Card is an immutable playing card. ID is unique within one game instance
// and is the only field used for identity.
type Card struct {
	ID   uuid.UUID
	Suit Suit
	Rank Rank
}

// NewCard returns a card with a freshly generated id.
func NewCard(suit Suit, rank Rank) Card {
	return Card{ID: uuid.New(), Suit: suit, Rank: rank}
}

// IsWild reports whether the card is an eight.
func (c Card) IsWild() bool { return c.Rank == WildRank }

func (c Card) String() string { return c.Rank.String() + c.Suit.Symbol() }

// Turn identifies whose action is expected.
type Turn uint8

const (
	TurnPlayer Turn = iota
	TurnAI
)

// Other returns the opposing side.
func (t Turn) Other() Turn {
	if t == TurnPlayer {
		return TurnAI
	}
	return TurnPlayer
}

func (t Turn) String() string {
	switch t {
	case TurnPlayer:
		return "player"
	case TurnAI:
		return "ai"
	default:
		return "?"
	}
}

// MarshalText encodes the turn by name.
func (t Turn) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Phase is the game lifecycle stage.
type Phase uint8

const (
	PhaseDealing Phase = iota
	PhasePlaying
	PhaseSelectingSuit
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhasePlaying:
		return "playing"
	case PhaseSelectingSuit:
		return "selecting_suit"
	case PhaseGameOver:
		return "game_over"
	default:
		return "?"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
