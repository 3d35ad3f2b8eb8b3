package game

import (
	"fmt"
	"math/rand"
	"time"

	"dev-millionaire-service/internal/domain"
)

// TimerOp tells the runtime what to do with the countdown after a transition.
// The runtime must stop any live countdown before starting a new one, so at
// most one countdown source exists at any time.
type TimerOp int

const (
	TimerNone TimerOp = iota
	TimerStart
	TimerStop
)

// Directive is the engine's instruction to its runtime: adjust the countdown
// and, when ResolveAfter is positive, call ResolvePending once after that
// delay. Delayed resolutions are single-fire and cancel-safe; if the process
// goes away before one fires it is reconstructed from the persisted snapshot
// on resume.
type Directive struct {
	Timer        TimerOp
	ResolveAfter time.Duration
}

const (
	advanceDelay  = 2 * time.Second
	gameOverDelay = 1500 * time.Millisecond
)

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingAdvance
	pendingMilestone
	pendingWrong
	pendingTimeout
)

type modalKind int

const (
	modalNone modalKind = iota
	modalMilestone
	modalLifeline
	modalGameOver
)

// Engine is the session state machine. It owns all mutable game state and is
// not safe for concurrent use; the caller funnels one event at a time through
// it. Randomness comes from the injected rand so tests can seed it.
type Engine struct {
	rnd        *rand.Rand
	categories []string
	roster     []domain.RosterQuestion

	phase        domain.Phase
	index        int
	score        int
	timer        int
	timerRunning bool
	lifelines    domain.LifelineSet
	eliminated   [domain.OptionCount]bool

	pending   pendingKind
	modal     *domain.Modal
	modalOpen modalKind
	revealed  bool
	wrongPick int
	timedOut  bool
	end       *domain.Result
}

// Start creates a fresh session over a full roster and loads question one.
func Start(roster []domain.RosterQuestion, categories []string, rnd *rand.Rand) (*Engine, Directive, error) {
	if len(roster) != domain.RosterSize {
		return nil, Directive{}, fmt.Errorf("%w: roster has %d questions", domain.ErrInsufficientQuestions, len(roster))
	}
	e := &Engine{
		rnd:        rnd,
		categories: categories,
		roster:     roster,
		lifelines:  domain.AllLifelines(),
		wrongPick:  -1,
	}
	return e, e.loadQuestion(), nil
}

// Resume rebuilds a session from a persisted snapshot. The roster order,
// option permutations, score, index, timer value and lifeline flags come
// back verbatim; the countdown restarts only if it was running when the
// snapshot was taken. A snapshot saved during the correct-answer reveal
// carries a score one ahead of its index; that question never needs
// replaying, so the session resumes at the next one with a fresh tier timer
// (or finishes as won when it was the last). A snapshot that fails
// validation is reported as an error so the caller can fall back to a new
// game.
func Resume(snap domain.Snapshot, rnd *rand.Rand) (*Engine, Directive, error) {
	if !snap.Active || len(snap.Roster) != domain.RosterSize {
		return nil, Directive{}, fmt.Errorf("snapshot not resumable")
	}
	if snap.Index < 0 || snap.Index >= len(snap.Roster) || snap.Score < 0 || snap.Score > snap.Index+1 || snap.Timer < 0 {
		return nil, Directive{}, fmt.Errorf("snapshot out of bounds")
	}
	e := &Engine{
		rnd:        rnd,
		categories: snap.Categories,
		roster:     snap.Roster,
		phase:      domain.PhaseAnswering,
		index:      snap.Index,
		score:      snap.Score,
		timer:      snap.Timer,
		lifelines:  snap.Lifelines,
		eliminated: snap.Eliminated,
		wrongPick:  -1,
	}
	if snap.Score == snap.Index+1 {
		e.index++
		if e.index >= len(e.roster) {
			return e, e.finish(true), nil
		}
		e.eliminated = [domain.OptionCount]bool{}
		e.timer = domain.TimerDuration(domain.TierForIndex(e.index))
		return e, Directive{}, nil
	}
	if !snap.TimerPaused {
		e.timerRunning = true
		return e, Directive{Timer: TimerStart}, nil
	}
	return e, Directive{}, nil
}

// loadQuestion resets per-question state and the tier timer, or ends the game
// as won when the roster is exhausted.
func (e *Engine) loadQuestion() Directive {
	if e.index >= len(e.roster) {
		return e.finish(true)
	}
	e.eliminated = [domain.OptionCount]bool{}
	e.revealed = false
	e.wrongPick = -1
	e.timer = domain.TimerDuration(domain.TierForIndex(e.index))
	e.phase = domain.PhaseAnswering
	e.timerRunning = true
	return Directive{Timer: TimerStart}
}

// Answer handles the player picking the option at a display position. Only
// valid while answering; anything else is a no-op. The countdown stops
// immediately, the correct option is revealed, and the follow-up (advance,
// milestone or game over) fires after the reveal delay.
func (e *Engine) Answer(display int) Directive {
	if e.phase != domain.PhaseAnswering || display < 0 || display >= domain.OptionCount {
		return Directive{}
	}
	if e.eliminated[display] {
		return Directive{}
	}

	q := e.roster[e.index]
	e.timerRunning = false
	e.revealed = true
	e.phase = domain.PhaseSuspended

	if q.OptionOrder[display] == q.Answer {
		e.score++
		if _, milestone := milestones[e.index]; milestone {
			e.pending = pendingMilestone
		} else {
			e.pending = pendingAdvance
		}
		return Directive{Timer: TimerStop, ResolveAfter: advanceDelay}
	}

	e.wrongPick = display
	e.pending = pendingWrong
	return Directive{Timer: TimerStop, ResolveAfter: gameOverDelay}
}

// Tick decrements the countdown by one second. Hitting zero is handled like a
// wrong answer but with its own timed-out framing.
func (e *Engine) Tick() Directive {
	if e.phase != domain.PhaseAnswering || !e.timerRunning {
		return Directive{}
	}
	e.timer--
	if e.timer > 0 {
		return Directive{}
	}
	e.timer = 0
	e.timerRunning = false
	e.timedOut = true
	e.revealed = true
	e.pending = pendingTimeout
	e.phase = domain.PhaseSuspended
	return Directive{Timer: TimerStop, ResolveAfter: gameOverDelay}
}

// ResolvePending fires the transition scheduled by Answer or Tick.
func (e *Engine) ResolvePending() Directive {
	pending := e.pending
	e.pending = pendingNone
	switch pending {
	case pendingAdvance:
		e.index++
		return e.loadQuestion()
	case pendingMilestone:
		msg := milestones[e.index]
		e.modal = &domain.Modal{Title: msg.title, Body: msg.body}
		e.modalOpen = modalMilestone
		return Directive{}
	case pendingWrong:
		e.modal = &domain.Modal{
			Title: wrongTitles[e.rnd.Intn(len(wrongTitles))],
			Body:  wrongBodies[e.rnd.Intn(len(wrongBodies))],
		}
		e.modalOpen = modalGameOver
		return Directive{}
	case pendingTimeout:
		e.modal = &domain.Modal{
			Title: timeoutTitles[e.rnd.Intn(len(timeoutTitles))],
			Body:  timeoutBodies[e.rnd.Intn(len(timeoutBodies))],
		}
		e.modalOpen = modalGameOver
		return Directive{}
	}
	return Directive{}
}

// UseLifeline consumes the named lifeline and applies its effect. A second
// use, or a use outside the answering phase, is a no-op. Fifty-fifty leaves
// the countdown running; the two modal lifelines pause it until dismissal.
func (e *Engine) UseLifeline(kind domain.LifelineKind) Directive {
	if e.phase != domain.PhaseAnswering || !e.lifelines.Available(kind) {
		return Directive{}
	}
	e.lifelines.Consume(kind)

	q := e.roster[e.index]
	tier := domain.TierForIndex(e.index)

	switch kind {
	case domain.LifelineFiftyFifty:
		for _, display := range fiftyFifty(q, e.eliminated, e.rnd) {
			e.eliminated[display] = true
		}
		return Directive{}

	case domain.LifelineAskAudience:
		poll := askAudience(q, e.eliminated, tier, e.rnd)
		audience := make(map[string]int, len(poll))
		for display, percent := range poll {
			audience[optionLabels[display]] = percent
		}
		e.modal = &domain.Modal{
			Title:    "Ask the Audience",
			Body:     "They're probably as clueless as you are.",
			Audience: audience,
		}

	case domain.LifelinePhoneFriend:
		name, line, display := phoneFriend(q, e.eliminated, tier, e.rnd)
		e.modal = &domain.Modal{
			Title: fmt.Sprintf("Calling %s...", name),
			Body:  fmt.Sprintf("%q", fmt.Sprintf("%s %s. Now don't call me again.", line, optionLabels[display])),
		}
	}

	e.modalOpen = modalLifeline
	e.timerRunning = false
	e.phase = domain.PhaseSuspended
	return Directive{Timer: TimerStop}
}

// Dismiss closes the visible modal. A milestone dismissal advances to the
// next question, a game-over dismissal finalizes the loss, and a lifeline
// dismissal resumes the countdown at its remaining value.
func (e *Engine) Dismiss() Directive {
	if e.phase != domain.PhaseSuspended || e.modal == nil {
		return Directive{}
	}
	open := e.modalOpen
	e.modal = nil
	e.modalOpen = modalNone

	switch open {
	case modalMilestone:
		e.index++
		return e.loadQuestion()
	case modalGameOver:
		return e.finish(false)
	default:
		e.phase = domain.PhaseAnswering
		e.timerRunning = true
		return Directive{Timer: TimerStart}
	}
}

// finish moves the session to its terminal state and resolves the prize.
func (e *Engine) finish(won bool) Directive {
	e.timerRunning = false
	e.modal = nil
	e.modalOpen = modalNone
	e.pending = pendingNone

	prize := domain.ResolvePrize(e.score, won)
	if won && e.score == domain.RosterSize {
		e.phase = domain.PhaseWon
		e.end = &domain.Result{Won: true, Title: winTitle, Message: winMessage, Prize: prize}
	} else {
		e.phase = domain.PhaseLost
		reason := loseWrong
		if e.timedOut {
			reason = loseTimeout
		}
		e.end = &domain.Result{
			Won:     false,
			Title:   loseTitle,
			Message: fmt.Sprintf("%s You stumbled through %d questions.", reason, e.score),
			Prize:   prize,
		}
	}
	return Directive{Timer: TimerStop}
}

// Ended reports whether the session reached a terminal outcome.
func (e *Engine) Ended() bool {
	return e.phase == domain.PhaseWon || e.phase == domain.PhaseLost
}

// Categories returns the category selection the session was started with.
func (e *Engine) Categories() []string {
	return e.categories
}

// Snapshot serializes the durable fields for persistence. Terminal sessions
// are marked inactive so a reload starts fresh.
func (e *Engine) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Categories:  e.categories,
		Roster:      e.roster,
		Index:       e.index,
		Score:       e.score,
		Timer:       e.timer,
		TimerPaused: !e.timerRunning,
		Lifelines:   e.lifelines,
		Eliminated:  e.eliminated,
		Active:      !e.Ended(),
	}
}
