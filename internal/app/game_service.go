package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"dev-millionaire-service/internal/domain"
	"dev-millionaire-service/internal/game"
)

// AllCategories is the sentinel the client sends to play across every bank.
const AllCategories = "all"

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, category string) ([]domain.Question, error)
	Categories(ctx context.Context) ([]string, error)
}

// SnapshotStore abstracts where session snapshots persist between page loads
// (in-memory, Redis, etc).
type SnapshotStore interface {
	Save(ctx context.Context, id string, snap domain.Snapshot) error
	Load(ctx context.Context, id string) (domain.Snapshot, bool, error)
	Delete(ctx context.Context, id string) error
}

// GameService opens game sessions: resuming a saved one when it exists,
// otherwise drawing a fresh roster from the selected categories.
type GameService struct {
	banks     BankRepository
	store     SnapshotStore
	newRand   func() *rand.Rand
	tickEvery time.Duration
}

// Option tweaks service construction; tests inject a seeded rand and a fast
// tick interval.
type Option func(*GameService)

// WithRand replaces the per-session random source factory.
func WithRand(factory func() *rand.Rand) Option {
	return func(s *GameService) { s.newRand = factory }
}

// WithTickInterval replaces the one-second countdown granularity.
func WithTickInterval(d time.Duration) Option {
	return func(s *GameService) { s.tickEvery = d }
}

func NewGameService(banks BankRepository, store SnapshotStore, opts ...Option) *GameService {
	s := &GameService{
		banks: banks,
		store: store,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		tickEvery: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the running game for a browsing session. A valid in-progress
// snapshot resumes verbatim (same roster, same option order, same lifelines);
// a corrupt one is discarded and treated as absent. Starting fresh requires a
// non-empty category selection and enough questions per tier.
func (s *GameService) Open(ctx context.Context, sessionID string, categories []string) (*Game, bool, error) {
	rnd := s.newRand()

	if snap, ok, err := s.store.Load(ctx, sessionID); err == nil && ok {
		engine, directive, resumeErr := game.Resume(snap, rnd)
		if resumeErr == nil {
			g := s.newGame(sessionID, engine)
			g.begin(directive)
			// Rewrites a mid-reveal checkpoint in its resumed form, and
			// clears the snapshot when the resume resolved a finished game.
			g.persist()
			return g, true, nil
		}
		log.Printf("session %s: discarding unusable snapshot: %v", sessionID, resumeErr)
		_ = s.store.Delete(ctx, sessionID)
	} else if err != nil {
		log.Printf("session %s: snapshot load failed, starting fresh: %v", sessionID, err)
	}

	if len(categories) == 0 {
		return nil, false, domain.ErrNoCategories
	}
	pool, err := s.loadPools(ctx, categories)
	if err != nil {
		return nil, false, err
	}
	roster, err := game.BuildRoster(pool, rnd)
	if err != nil {
		return nil, false, err
	}
	engine, directive, err := game.Start(roster, categories, rnd)
	if err != nil {
		return nil, false, err
	}

	g := s.newGame(sessionID, engine)
	g.persist()
	g.begin(directive)
	return g, false, nil
}

// loadPools fetches each requested bank, expanding the "all" sentinel. An
// unavailable bank contributes an empty list; it only becomes fatal if the
// roster draw later comes up short.
func (s *GameService) loadPools(ctx context.Context, categories []string) (map[string][]domain.Question, error) {
	requested := categories
	for _, category := range categories {
		if category == AllCategories {
			all, err := s.banks.Categories(ctx)
			if err != nil {
				return nil, err
			}
			requested = all
			break
		}
	}

	pool := make(map[string][]domain.Question, len(requested))
	for _, category := range requested {
		questions, err := s.banks.GetBank(ctx, category)
		if err != nil {
			log.Printf("bank %q unavailable, continuing without it: %v", category, err)
			questions = nil
		}
		pool[category] = questions
	}
	return pool, nil
}

func (s *GameService) newGame(id string, engine *game.Engine) *Game {
	return &Game{
		id:          id,
		store:       s.store,
		tickEvery:   s.tickEvery,
		engine:      engine,
		subscribers: make(map[chan domain.View]struct{}),
	}
}
