package agent

import (
	"testing"

	engine "github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/engine"
)

// aiTurn builds a state where the computer must act on the given face.
func aiTurn(top engine.Card, ai engine.Hand) engine.GameState {
	return engine.GameState{
		PlayerHand: engine.Hand{engine.NewCard(engine.SuitSpades, engine.RankAce)},
		AIHand:     ai,
		Discard:    []engine.Card{top},
		Turn:       engine.TurnAI,
		Phase:      engine.PhasePlaying,
	}
}

func TestChooseActionPrefersNonEight(t *testing.T) {
	eight := engine.NewCard(engine.SuitClubs, engine.RankEight)
	match := engine.NewCard(engine.SuitHearts, engine.RankTwo)
	later := engine.NewCard(engine.SuitHearts, engine.RankQueen)
	g := aiTurn(engine.NewCard(engine.SuitHearts, engine.RankNine), engine.Hand{eight, match, later})

	a := ChooseAction(g)
	if a.Draw {
		t.Fatal("drew with playable cards in hand")
	}
	if a.Card.ID != match.ID {
		t.Errorf("played %s, want first non-eight %s", a.Card, match)
	}
	if a.Suit != nil {
		t.Error("non-eight play should not name a suit")
	}
}

func TestChooseActionPlaysEightLast(t *testing.T) {
	eight := engine.NewCard(engine.SuitClubs, engine.RankEight)
	g := aiTurn(engine.NewCard(engine.SuitHearts, engine.RankNine), engine.Hand{
		engine.NewCard(engine.SuitSpades, engine.RankTwo),
		eight,
		engine.NewCard(engine.SuitSpades, engine.RankFour),
		engine.NewCard(engine.SuitDiamonds, engine.RankFour),
	})

	a := ChooseAction(g)
	if a.Draw || a.Card.ID != eight.ID {
		t.Fatalf("action = %+v, want the eight", a)
	}
	if a.Suit == nil || *a.Suit != engine.SuitSpades {
		t.Errorf("suit = %v, want spades", a.Suit)
	}
	// The chosen action must be accepted by the rules.
	if _, err := engine.ApplyPlay(g, a.Card, engine.TurnAI, a.Suit); err != nil {
		t.Errorf("ApplyPlay rejected policy action: %v", err)
	}
}

func TestChooseActionDrawsWhenStuck(t *testing.T) {
	g := aiTurn(engine.NewCard(engine.SuitHearts, engine.RankNine), engine.Hand{
		engine.NewCard(engine.SuitSpades, engine.RankTwo),
		engine.NewCard(engine.SuitClubs, engine.RankKing),
	})
	if a := ChooseAction(g); !a.Draw {
		t.Errorf("action = %+v, want draw", a)
	}
}

func TestChooseActionRespectsWildSuit(t *testing.T) {
	s := engine.SuitClubs
	heart := engine.NewCard(engine.SuitHearts, engine.RankTwo)
	club := engine.NewCard(engine.SuitClubs, engine.RankKing)
	g := aiTurn(engine.NewCard(engine.SuitHearts, engine.RankEight), engine.Hand{heart, club})
	g.WildSuit = &s
	a := ChooseAction(g)
	if a.Card.ID != club.ID {
		t.Errorf("played %s, want %s under wild clubs", a.Card, club)
	}
}

func TestChooseSuit(t *testing.T) {
	tests := []struct {
		name string
		hand engine.Hand
		want engine.Suit
	}{
		{"empty", nil, FallbackSuit},
		{"majority", engine.Hand{
			engine.NewCard(engine.SuitDiamonds, engine.RankTwo),
			engine.NewCard(engine.SuitSpades, engine.RankTwo),
			engine.NewCard(engine.SuitSpades, engine.RankThree),
		}, engine.SuitSpades},
		{"tie goes to canonical order", engine.Hand{
			engine.NewCard(engine.SuitSpades, engine.RankTwo),
			engine.NewCard(engine.SuitDiamonds, engine.RankTwo),
		}, engine.SuitDiamonds},
		{"clubs first", engine.Hand{
			engine.NewCard(engine.SuitHearts, engine.RankTwo),
			engine.NewCard(engine.SuitClubs, engine.RankTwo),
		}, engine.SuitClubs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseSuit(tt.hand); got != tt.want {
				t.Errorf("ChooseSuit = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestChooseSuitLastEight covers an eight as the only card left.
func TestChooseSuitLastEight(t *testing.T) {
	eight := engine.NewCard(engine.SuitClubs, engine.RankEight)
	g := aiTurn(engine.NewCard(engine.SuitHearts, engine.RankNine), engine.Hand{eight})
	a := ChooseAction(g)
	if a.Suit == nil || *a.Suit != FallbackSuit {
		t.Errorf("suit = %v, want fallback %s", a.Suit, FallbackSuit)
	}
}

// TestPolicyNeverStalls plays full games with the policy on both sides.
func TestPolicyNeverStalls(t *testing.T) {
	for seed := uint64(1); seed <= 100; seed++ {
		g := engine.NewGame(engine.NewRand(seed))
		for step := 0; step < 2000 && !g.IsOver(); step++ {
			// Mirror the state so the policy can drive the human seat too.
			view := g
			if g.Turn == engine.TurnPlayer {
				view = g.Clone()
				view.AIHand = g.PlayerHand
			}
			a := ChooseAction(view)
			var err error
			if a.Draw {
				g, err = engine.ApplyDraw(g, g.Turn)
			} else {
				g, err = engine.ApplyPlay(g, a.Card, g.Turn, a.Suit)
			}
			if err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			if g.CardCount() != engine.DeckSize {
				t.Fatalf("seed %d: card count %d", seed, g.CardCount())
			}
		}
	}
}
