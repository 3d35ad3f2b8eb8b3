package game_test

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"dev-millionaire-service/internal/domain"
	"dev-millionaire-service/internal/game"
)

// identityRoster keeps every question's options in original order, so the
// correct display index for question i is simply i%4.
func identityRoster() []domain.RosterQuestion {
	roster := make([]domain.RosterQuestion, domain.RosterSize)
	for i := range roster {
		roster[i] = domain.RosterQuestion{
			Question: domain.Question{
				Text:       fmt.Sprintf("question %d", i),
				Options:    []string{"north", "south", "east", "west"},
				Answer:     i % domain.OptionCount,
				Difficulty: domain.TierForIndex(i),
			},
			OptionOrder: [domain.OptionCount]int{0, 1, 2, 3},
		}
	}
	return roster
}

func startEngine(t *testing.T, seed int64) *game.Engine {
	t.Helper()
	e, d, err := game.Start(identityRoster(), []string{"demo"}, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.Timer != game.TimerStart {
		t.Fatalf("start directive timer = %v, want TimerStart", d.Timer)
	}
	return e
}

func TestStartRejectsShortRoster(t *testing.T) {
	_, _, err := game.Start(identityRoster()[:10], []string{"demo"}, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected error for short roster")
	}
}

func TestWinningRun(t *testing.T) {
	e := startEngine(t, 1)

	for i := 0; i < domain.RosterSize; i++ {
		v := e.View()
		if v.Phase != domain.PhaseAnswering {
			t.Fatalf("question %d: phase %s, want answering", i, v.Phase)
		}
		if v.QuestionNumber != i+1 {
			t.Fatalf("question number %d, want %d", v.QuestionNumber, i+1)
		}
		if want := domain.TimerDuration(domain.TierForIndex(i)); v.Timer != want {
			t.Fatalf("question %d: timer %d, want %d", i, v.Timer, want)
		}
		if v.Score != i {
			t.Fatalf("question %d: score %d, want %d", i, v.Score, i)
		}

		correct := i % domain.OptionCount
		d := e.Answer(correct)
		if d.Timer != game.TimerStop || d.ResolveAfter != 2*time.Second {
			t.Fatalf("question %d: answer directive %+v", i, d)
		}
		if v = e.View(); !v.Options[correct].Correct {
			t.Fatalf("question %d: correct option not revealed", i)
		}

		e.ResolvePending()
		switch i {
		case 4, 9, 12:
			v = e.View()
			if v.Modal == nil {
				t.Fatalf("question %d: expected milestone modal", i)
			}
			if v.QuestionNumber != i+1 {
				t.Fatalf("milestone advanced early: question number %d", v.QuestionNumber)
			}
			if d = e.Dismiss(); d.Timer != game.TimerStart {
				t.Fatalf("milestone dismiss directive %+v", d)
			}
		}
	}

	v := e.View()
	if v.Phase != domain.PhaseWon || v.End == nil || !v.End.Won {
		t.Fatalf("expected won terminal state, got %+v", v)
	}
	if v.End.Prize != "$1,000,000" {
		t.Fatalf("prize %q, want $1,000,000", v.End.Prize)
	}
	if v.Score != domain.RosterSize {
		t.Fatalf("final score %d, want %d", v.Score, domain.RosterSize)
	}
	if e.Snapshot().Active {
		t.Fatal("terminal session still marked active")
	}
}

func TestWrongAnswerLoses(t *testing.T) {
	e := startEngine(t, 2)

	d := e.Answer(1) // correct is 0 on question 0
	if d.Timer != game.TimerStop || d.ResolveAfter != 1500*time.Millisecond {
		t.Fatalf("wrong answer directive %+v", d)
	}
	v := e.View()
	if !v.Options[1].Wrong || !v.Options[0].Correct {
		t.Fatal("expected wrong pick and correct option revealed")
	}

	e.ResolvePending()
	if e.View().Modal == nil {
		t.Fatal("expected game-over modal")
	}
	e.Dismiss()

	v = e.View()
	if v.Phase != domain.PhaseLost || v.End == nil || v.End.Won {
		t.Fatalf("expected lost terminal state, got %+v", v)
	}
	if v.End.Prize != "$0" {
		t.Fatalf("prize %q, want $0", v.End.Prize)
	}
	if !strings.Contains(v.End.Message, "terrible guess") {
		t.Fatalf("message %q lacks wrong-answer framing", v.End.Message)
	}
}

func TestLossAfterSafeHavenKeepsFloorPrize(t *testing.T) {
	e := startEngine(t, 3)

	for i := 0; i < 5; i++ {
		e.Answer(i % domain.OptionCount)
		e.ResolvePending()
		if i == 4 {
			e.Dismiss()
		}
	}
	e.Answer((5 + 1) % domain.OptionCount) // wrong on question 5
	e.ResolvePending()
	e.Dismiss()

	v := e.View()
	if v.Phase != domain.PhaseLost {
		t.Fatalf("phase %s, want lost", v.Phase)
	}
	if v.End.Prize != "$1,000" {
		t.Fatalf("prize %q, want $1,000", v.End.Prize)
	}
}

func TestTimerExpiryLosesWithTimeoutFraming(t *testing.T) {
	e := startEngine(t, 4)

	var d game.Directive
	for i := 0; i < 30; i++ {
		d = e.Tick()
		v := e.View()
		if v.Timer == 8 && !v.Urgent {
			t.Fatal("expected urgent flag at 8s remaining")
		}
	}
	if d.Timer != game.TimerStop || d.ResolveAfter != 1500*time.Millisecond {
		t.Fatalf("expiry directive %+v", d)
	}
	if v := e.View(); v.Timer != 0 || !v.Options[0].Correct {
		t.Fatal("expected timer at zero with correct option revealed")
	}

	e.ResolvePending()
	if e.View().Modal == nil {
		t.Fatal("expected timeout modal")
	}
	e.Dismiss()

	v := e.View()
	if v.Phase != domain.PhaseLost {
		t.Fatalf("phase %s, want lost", v.Phase)
	}
	if !strings.Contains(v.End.Message, "too slow") {
		t.Fatalf("message %q lacks timed-out framing", v.End.Message)
	}
}

func TestSuspendedInputsAreNoops(t *testing.T) {
	e := startEngine(t, 5)
	e.Answer(0)

	before := e.View()
	if d := e.Answer(1); d != (game.Directive{}) {
		t.Fatalf("answer while suspended returned %+v", d)
	}
	if d := e.Tick(); d != (game.Directive{}) {
		t.Fatalf("tick while suspended returned %+v", d)
	}
	if d := e.UseLifeline(domain.LifelineFiftyFifty); d != (game.Directive{}) {
		t.Fatalf("lifeline while suspended returned %+v", d)
	}
	if after := e.View(); !reflect.DeepEqual(before, after) {
		t.Fatalf("suspended no-ops changed state:\nbefore %+v\nafter  %+v", before, after)
	}
	if !e.View().Lifelines.FiftyFifty {
		t.Fatal("lifeline consumed during suspension")
	}
}

func TestFiftyFiftyThroughEngine(t *testing.T) {
	e := startEngine(t, 6)

	d := e.UseLifeline(domain.LifelineFiftyFifty)
	if d.Timer != game.TimerNone {
		t.Fatalf("fifty-fifty touched the timer: %+v", d)
	}

	v := e.View()
	if v.Lifelines.FiftyFifty {
		t.Fatal("fifty-fifty not consumed")
	}
	eliminated := 0
	for _, opt := range v.Options {
		if opt.Eliminated {
			eliminated++
		}
	}
	if eliminated != 2 || v.Options[0].Eliminated {
		t.Fatalf("expected 2 incorrect options eliminated, got %+v", v.Options)
	}

	// Second use is a no-op.
	before := e.View()
	if d := e.UseLifeline(domain.LifelineFiftyFifty); d != (game.Directive{}) {
		t.Fatalf("repeat lifeline returned %+v", d)
	}
	if !reflect.DeepEqual(before, e.View()) {
		t.Fatal("repeat lifeline changed state")
	}

	// Eliminated options are no longer selectable.
	var gone int
	for display, opt := range before.Options {
		if opt.Eliminated {
			gone = display
			break
		}
	}
	if d := e.Answer(gone); d != (game.Directive{}) {
		t.Fatalf("answering an eliminated option returned %+v", d)
	}
}

func TestAskAudiencePausesAndResumesCountdown(t *testing.T) {
	e := startEngine(t, 7)
	e.Tick()
	e.Tick()
	remaining := e.View().Timer

	d := e.UseLifeline(domain.LifelineAskAudience)
	if d.Timer != game.TimerStop {
		t.Fatalf("ask-audience directive %+v", d)
	}
	v := e.View()
	if v.Modal == nil || v.Modal.Audience == nil {
		t.Fatal("expected audience modal with percentages")
	}
	total := 0
	for _, percent := range v.Modal.Audience {
		total += percent
	}
	if total != 100 {
		t.Fatalf("audience poll sums to %d, want 100", total)
	}
	if e.Tick() != (game.Directive{}) {
		t.Fatal("countdown ticked while the modal was open")
	}

	if d = e.Dismiss(); d.Timer != game.TimerStart {
		t.Fatalf("dismiss directive %+v", d)
	}
	if got := e.View().Timer; got != remaining {
		t.Fatalf("timer %d after lifeline, want unchanged %d", got, remaining)
	}
}

func TestPhoneFriendModal(t *testing.T) {
	e := startEngine(t, 8)

	e.UseLifeline(domain.LifelinePhoneFriend)
	v := e.View()
	if v.Modal == nil || !strings.HasPrefix(v.Modal.Title, "Calling ") {
		t.Fatalf("expected phone-friend modal, got %+v", v.Modal)
	}
	if v.Lifelines.PhoneFriend {
		t.Fatal("phone-friend not consumed")
	}
}

func TestSnapshotResumeRoundTrip(t *testing.T) {
	e := startEngine(t, 9)

	// Clear question 0, burn a lifeline on question 1, tick twice.
	e.Answer(0)
	e.ResolvePending()
	e.UseLifeline(domain.LifelineFiftyFifty)
	e.Tick()
	e.Tick()

	snap := e.Snapshot()
	resumed, d, err := game.Resume(snap, rand.New(rand.NewSource(1000)))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if d.Timer != game.TimerStart {
		t.Fatalf("resume directive %+v, want countdown restart", d)
	}
	if !reflect.DeepEqual(e.View(), resumed.View()) {
		t.Fatalf("resume produced a different view:\nwas %+v\nnow %+v", e.View(), resumed.View())
	}
	if !reflect.DeepEqual(snap, resumed.Snapshot()) {
		t.Fatal("resume produced a different snapshot")
	}
}

func TestResumePausedSnapshotDoesNotStartCountdown(t *testing.T) {
	e := startEngine(t, 10)
	e.UseLifeline(domain.LifelineAskAudience) // modal open, countdown paused

	snap := e.Snapshot()
	if !snap.TimerPaused {
		t.Fatal("expected paused snapshot")
	}

	resumed, d, err := game.Resume(snap, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if d != (game.Directive{}) {
		t.Fatalf("paused resume directive %+v, want none", d)
	}
	v := resumed.View()
	if v.Phase != domain.PhaseAnswering || v.TimerRunning {
		t.Fatalf("paused resume state %+v", v)
	}
	// The player can still answer from the checkpoint.
	if d = resumed.Answer(0); d.Timer != game.TimerStop {
		t.Fatalf("answer after paused resume returned %+v", d)
	}
}

func TestResumeMidRevealAdvancesToNextQuestion(t *testing.T) {
	e := startEngine(t, 12)
	e.Answer(0) // correct on question 0, advance not yet fired

	snap := e.Snapshot()
	if snap.Score != snap.Index+1 {
		t.Fatalf("mid-reveal snapshot score=%d index=%d", snap.Score, snap.Index)
	}

	resumed, d, err := game.Resume(snap, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if d != (game.Directive{}) {
		t.Fatalf("mid-reveal resume directive %+v, want none", d)
	}
	v := resumed.View()
	if v.QuestionNumber != 2 || v.Score != 1 {
		t.Fatalf("resumed at question %d score %d, want question 2 score 1", v.QuestionNumber, v.Score)
	}
	if v.Timer != domain.TimerDuration(1) || v.TimerRunning {
		t.Fatalf("resumed timer %d running=%v, want fresh paused %d", v.Timer, v.TimerRunning, domain.TimerDuration(1))
	}
}

func TestResumeDuringMilestoneModalSkipsAhead(t *testing.T) {
	e := startEngine(t, 13)
	for i := 0; i < 4; i++ {
		e.Answer(i % domain.OptionCount)
		e.ResolvePending()
	}
	e.Answer(4 % domain.OptionCount)
	e.ResolvePending()
	if e.View().Modal == nil {
		t.Fatal("expected milestone modal")
	}

	resumed, _, err := game.Resume(e.Snapshot(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	v := resumed.View()
	if v.QuestionNumber != 6 || v.Score != 5 {
		t.Fatalf("resumed at question %d score %d, want question 6 score 5", v.QuestionNumber, v.Score)
	}
	if v.Modal != nil {
		t.Fatal("milestone modal survived the reload")
	}
	if v.Timer != domain.TimerDuration(2) {
		t.Fatalf("resumed timer %d, want fresh %d for tier 2", v.Timer, domain.TimerDuration(2))
	}
}

func TestResumeAfterFinalAnswerFinishesTheWin(t *testing.T) {
	e := startEngine(t, 14)
	for i := 0; i < domain.RosterSize-1; i++ {
		e.Answer(i % domain.OptionCount)
		e.ResolvePending()
		switch i {
		case 4, 9, 12:
			e.Dismiss()
		}
	}
	e.Answer((domain.RosterSize - 1) % domain.OptionCount)

	resumed, d, err := game.Resume(e.Snapshot(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if d.Timer != game.TimerStop {
		t.Fatalf("finished resume directive %+v, want TimerStop", d)
	}
	v := resumed.View()
	if v.Phase != domain.PhaseWon || v.End == nil || !v.End.Won {
		t.Fatalf("expected the win to survive the reload, got %+v", v)
	}
	if v.End.Prize != "$1,000,000" {
		t.Fatalf("prize %q, want $1,000,000", v.End.Prize)
	}
}

func TestResumeRejectsBadSnapshots(t *testing.T) {
	base := startEngine(t, 11).Snapshot()

	cases := map[string]func(*domain.Snapshot){
		"inactive":         func(s *domain.Snapshot) { s.Active = false },
		"short roster":     func(s *domain.Snapshot) { s.Roster = s.Roster[:3] },
		"index past end":   func(s *domain.Snapshot) { s.Index = domain.RosterSize },
		"score over index": func(s *domain.Snapshot) { s.Score = 5 },
		"negative timer":   func(s *domain.Snapshot) { s.Timer = -1 },
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			snap := base
			snap.Roster = append([]domain.RosterQuestion(nil), base.Roster...)
			corrupt(&snap)
			if _, _, err := game.Resume(snap, rand.New(rand.NewSource(1))); err == nil {
				t.Fatal("expected resume to reject snapshot")
			}
		})
	}
}
