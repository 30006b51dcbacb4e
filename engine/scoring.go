package engine

// Penalty values for cards left in a hand when the round ends.
const (
	WildPoints = 50
	FacePoints = 10
)

// Value returns the penalty value of c: 50 for an eight, 10 for a face
// card, 1 for an ace and the pip value otherwise.
func (c Card) Value() int {
	switch {
	case c.Rank == WildRank:
		return WildPoints
	case c.Rank >= RankTen:
		return FacePoints
	default:
		return int(c.Rank) + 1
	}
}

// Points sums the penalty values of the cards in h.
func (h Hand) Points() int {
	total := 0
	for _, c := range h {
		total += c.Value()
	}
	return total
}

// RoundPoints returns the points the winner collects: the value of the
// loser's remaining hand. ok is false while the game is not over.
func (g GameState) RoundPoints() (winner Turn, points int, ok bool) {
	if !g.IsOver() || g.Winner == nil {
		return 0, 0, false
	}
	winner = *g.Winner
	return winner, g.Hand(winner.Other()).Points(), true
}

// Utility returns the outcome for t in [-1, +1]: +1 for the winner, -1 for
// the loser and 0 while the game is still running.
func (g GameState) Utility(t Turn) float32 {
	winner, _, ok := g.RoundPoints()
	switch {
	case !ok:
		return 0
	case winner == t:
		return 1
	default:
		return -1
	}
}
