// internal/game/game.go
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/engine"
	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/engine/agent"
	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultAIDelay is how long the computer appears to think before acting.
const DefaultAIDelay = 1500 * time.Millisecond

// ErrClosed is returned for actions on a closed session.
var ErrClosed = errors.New("game session is closed")

// OnGameEndFunc is executed once when a game finishes.
type OnGameEndFunc func(gameID uuid.UUID, winner engine.Turn)

// GameEventType names an outbound event.
type GameEventType string

// Outbound event types.
const (
	EventGameStart        GameEventType = "game_start"
	EventPlayerPlay       GameEventType = "player_play"        // A card was played; details always public.
	EventPlayerDraw       GameEventType = "player_draw"        // Card details only when the human drew.
	EventPlayerSelectSuit GameEventType = "player_select_suit" // The human named the wild suit.
	EventGamePlayerTurn   GameEventType = "game_player_turn"
	EventSyncState        GameEventType = "sync_state" // Full observable state.
	EventGameEnd          GameEventType = "game_end"
	EventActionError      GameEventType = "action_error" // A human action was rejected.
)

// GameEvent is the envelope for everything sent to the presentation client.
type GameEvent struct {
	Type    GameEventType  `json:"type"`
	Actor   string         `json:"actor,omitempty"` // "player" or "ai"
	Card    *models.Card   `json:"card,omitempty"`
	Suit    string         `json:"suit,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	State   *ObservedState `json:"state,omitempty"`
}

// CrazyEightsGame is one human-vs-computer session. It owns the single live
// engine.GameState and is the only caller of engine transitions.
type CrazyEightsGame struct {
	ID uuid.UUID

	AIDelay time.Duration // Delay before each computer action.
	Rand    *rand.Rand    // Shuffle source; nil uses the global source.

	BroadcastFn func(ev GameEvent) // Receives every event. Called with the lock held; must not block.
	OnGameEnd   OnGameEndFunc
	Log         *logrus.Entry

	mu      sync.Mutex
	state   engine.GameState
	version int         // Bumped on every committed state; stale timers compare against it.
	aiTimer *time.Timer // Pending computer action, if any.
	closed  bool
}

// NewCrazyEightsGame creates a session with default settings. Call InitGame
// to deal the first hand.
func NewCrazyEightsGame() *CrazyEightsGame {
	id := uuid.New()
	return &CrazyEightsGame{
		ID:      id,
		AIDelay: DefaultAIDelay,
		Log:     logrus.WithField("game", id.String()),
	}
}

// InitGame discards any current game and deals a new one. A pending
// computer action from the previous game is cancelled.
func (g *CrazyEightsGame) InitGame() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initGame()
}

// PlayCard plays the card with the given id for turn. suit names the wild
// suit when the card is an eight; the human may leave it nil and call
// SelectWildSuit afterwards.
func (g *CrazyEightsGame) PlayCard(cardID uuid.UUID, turn engine.Turn, suit *engine.Suit) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playCard(cardID, turn, suit)
}

// DrawCard draws for turn, or passes if the draw pile is empty.
func (g *CrazyEightsGame) DrawCard(turn engine.Turn) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.drawCard(turn)
}

// SelectWildSuit completes the human's pending eight.
func (g *CrazyEightsGame) SelectWildSuit(suit engine.Suit) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selectWildSuit(suit)
}

// State returns a snapshot of the live game state.
func (g *CrazyEightsGame) State() engine.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Version returns the number of states committed so far.
func (g *CrazyEightsGame) Version() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.version
}

// IsPlayable reports whether the human may play the card with the given id.
func (g *CrazyEightsGame) IsPlayable(cardID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Phase != engine.PhasePlaying || g.state.Turn != engine.TurnPlayer {
		return false
	}
	card, ok := g.state.PlayerHand.Find(cardID)
	return ok && engine.IsPlayable(card, g.state)
}

// Close stops the session. Pending computer actions are cancelled and all
// further actions fail with ErrClosed.
func (g *CrazyEightsGame) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.version++
	g.stopAITimer()
	g.Log.Debug("session closed")
}

// HandlePlayerAction routes an inbound client action for the human seat.
// Rejections are reported to the client with an action_error event.
func (g *CrazyEightsGame) HandlePlayerAction(action models.GameAction) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var err error
	switch action.ActionType {
	case models.ActionInit:
		err = g.initGame()
	case models.ActionPlay:
		var suit *engine.Suit
		if action.Payload.Suit != "" {
			s, perr := engine.ParseSuit(action.Payload.Suit)
			if perr != nil {
				err = perr
				break
			}
			suit = &s
		}
		err = g.playCard(action.Payload.CardID, engine.TurnPlayer, suit)
	case models.ActionDraw:
		err = g.drawCard(engine.TurnPlayer)
	case models.ActionSelectSuit:
		s, perr := engine.ParseSuit(action.Payload.Suit)
		if perr != nil {
			err = perr
			break
		}
		err = g.selectWildSuit(s)
	default:
		err = fmt.Errorf("unknown action type %q", action.ActionType)
	}
	if err != nil {
		g.Log.WithFields(logrus.Fields{"action": action.ActionType, "error": err}).Warn("rejected player action")
		g.fireEvent(GameEvent{
			Type:    EventActionError,
			Payload: map[string]any{"action": action.ActionType, "message": err.Error()},
		})
	}
}

// initGame deals a fresh game. Assumes lock is held by caller.
func (g *CrazyEightsGame) initGame() error {
	if g.closed {
		return ErrClosed
	}
	g.stopAITimer()
	g.commit(engine.NewGame(g.Rand), GameEvent{Type: EventGameStart})
	g.Log.WithField("opening", g.discardTop()).Info("game dealt")
	return nil
}

// playCard applies a play. Assumes lock is held by caller.
func (g *CrazyEightsGame) playCard(cardID uuid.UUID, turn engine.Turn, suit *engine.Suit) error {
	if g.closed {
		return ErrClosed
	}
	card, ok := g.state.Hand(turn).Find(cardID)
	if !ok {
		card = engine.Card{ID: cardID}
	}
	next, err := engine.ApplyPlay(g.state, card, turn, suit)
	if err != nil {
		g.Log.WithFields(logrus.Fields{"turn": turn, "card": cardID, "error": err}).Debug("play rejected")
		return err
	}
	wire := models.CardFromEngine(card)
	ev := GameEvent{Type: EventPlayerPlay, Actor: turn.String(), Card: &wire}
	if suit != nil && card.IsWild() {
		ev.Suit = suit.String()
	}
	g.Log.WithFields(logrus.Fields{"turn": turn, "card": card.String(), "suit": ev.Suit}).Debug("card played")
	g.commit(next, ev)
	return nil
}

// drawCard applies a draw. Assumes lock is held by caller.
func (g *CrazyEightsGame) drawCard(turn engine.Turn) error {
	if g.closed {
		return ErrClosed
	}
	prevLen := len(g.state.Hand(turn))
	next, err := engine.ApplyDraw(g.state, turn)
	if err != nil {
		g.Log.WithFields(logrus.Fields{"turn": turn, "error": err}).Debug("draw rejected")
		return err
	}
	ev := GameEvent{Type: EventPlayerDraw, Actor: turn.String()}
	hand := next.Hand(turn)
	if len(hand) == prevLen {
		ev.Payload = map[string]any{"forcedPass": true}
		g.Log.WithField("turn", turn).Debug("draw pile empty, turn passed")
	} else if turn == engine.TurnPlayer {
		wire := models.CardFromEngine(hand[len(hand)-1])
		ev.Card = &wire
	}
	g.commit(next, ev)
	return nil
}

// selectWildSuit applies a suit selection. Assumes lock is held by caller.
func (g *CrazyEightsGame) selectWildSuit(suit engine.Suit) error {
	if g.closed {
		return ErrClosed
	}
	next, err := engine.ApplySuitSelection(g.state, suit)
	if err != nil {
		g.Log.WithFields(logrus.Fields{"suit": suit, "error": err}).Debug("suit selection rejected")
		return err
	}
	g.commit(next, GameEvent{Type: EventPlayerSelectSuit, Actor: engine.TurnPlayer.String(), Suit: suit.String()})
	return nil
}

// commit replaces the live state, announces it, and arranges whatever must
// happen next. Assumes lock is held by caller.
func (g *CrazyEightsGame) commit(next engine.GameState, ev GameEvent) {
	g.state = next
	g.version++
	g.stopAITimer()

	g.fireEvent(ev)
	state := g.observedState()
	g.fireEvent(GameEvent{Type: EventSyncState, State: &state})

	switch {
	case next.IsOver():
		g.endGame()
	case next.Phase == engine.PhasePlaying:
		g.broadcastPlayerTurn()
		if next.Turn == engine.TurnAI {
			g.scheduleAITurn()
		}
	}
}

// scheduleAITurn arms exactly one computer action tied to the current
// version. Assumes lock is held by caller.
func (g *CrazyEightsGame) scheduleAITurn() {
	g.stopAITimer()
	expected := g.version
	g.aiTimer = time.AfterFunc(g.AIDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.closed || g.version != expected {
			return
		}
		g.aiTimer = nil
		g.runAITurn()
	})
}

// runAITurn asks the policy for a move and applies it. Assumes lock is held
// by caller.
func (g *CrazyEightsGame) runAITurn() {
	if g.state.Phase != engine.PhasePlaying || g.state.Turn != engine.TurnAI {
		return
	}
	action := agent.ChooseAction(g.state)
	var err error
	if action.Draw {
		err = g.drawCard(engine.TurnAI)
	} else {
		err = g.playCard(action.Card.ID, engine.TurnAI, action.Suit)
	}
	if err != nil {
		// The policy only proposes legal moves; fall back to a draw so the
		// game cannot stall.
		g.Log.WithError(err).Error("computer action rejected")
		if derr := g.drawCard(engine.TurnAI); derr != nil {
			g.Log.WithError(derr).Error("computer fallback draw rejected")
		}
	}
}

// stopAITimer cancels the pending computer action. Assumes lock is held by
// caller.
func (g *CrazyEightsGame) stopAITimer() {
	if g.aiTimer != nil {
		g.aiTimer.Stop()
		g.aiTimer = nil
	}
}

// broadcastPlayerTurn announces whose move it is. Assumes lock is held by
// caller.
func (g *CrazyEightsGame) broadcastPlayerTurn() {
	g.fireEvent(GameEvent{
		Type:    EventGamePlayerTurn,
		Actor:   g.state.Turn.String(),
		Payload: map[string]any{"version": g.version},
	})
}

// endGame announces the winner. Assumes lock is held by caller.
func (g *CrazyEightsGame) endGame() {
	g.stopAITimer()
	winner, points, _ := g.state.RoundPoints()
	g.Log.WithFields(logrus.Fields{
		"winner":     winner,
		"points":     points,
		"deck":       len(g.state.Deck),
		"playerHand": len(g.state.PlayerHand),
		"aiHand":     len(g.state.AIHand),
	}).Info("game over")
	g.fireEvent(GameEvent{
		Type:    EventGameEnd,
		Actor:   winner.String(),
		Payload: map[string]any{"winner": winner.String(), "points": points},
	})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner)
	}
}

// fireEvent hands ev to BroadcastFn. Assumes lock is held by caller.
func (g *CrazyEightsGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

func (g *CrazyEightsGame) discardTop() string {
	if top, ok := g.state.TopDiscard(); ok {
		return top.String()
	}
	return ""
}
