package domain

// Question is a single multiple-choice question as it appears in a category
// bank. JSON tags match the external bank format (one JSON array per category).
type Question struct {
	Text       string   `json:"question"`
	Options    []string `json:"options"`
	Answer     int      `json:"answer"`
	Difficulty int      `json:"difficulty"`
}

// OptionCount is the number of answer options per question.
const OptionCount = 4

// TierCount is the number of difficulty tiers.
const TierCount = 4

// Valid reports whether a raw bank record is playable. Malformed records are
// dropped at pool-merge time rather than failing the whole bank.
func (q Question) Valid() bool {
	if q.Text == "" || len(q.Options) != OptionCount {
		return false
	}
	if q.Answer < 0 || q.Answer >= OptionCount {
		return false
	}
	return q.Difficulty >= 1 && q.Difficulty <= TierCount
}

// RosterQuestion is a drawn question plus the option permutation fixed at
// roster-build time. OptionOrder maps display index to original option index;
// it is never recomputed, so a resumed session shows options in the same order.
type RosterQuestion struct {
	Question
	OptionOrder [OptionCount]int `json:"optionOrder"`
}

// DisplayIndexOf returns the display position of an original option index.
func (rq RosterQuestion) DisplayIndexOf(original int) int {
	for display, orig := range rq.OptionOrder {
		if orig == original {
			return display
		}
	}
	return -1
}

// LifelineKind identifies one of the three one-time lifelines.
type LifelineKind string

const (
	LifelineFiftyFifty  LifelineKind = "fiftyFifty"
	LifelineAskAudience LifelineKind = "askAudience"
	LifelinePhoneFriend LifelineKind = "phoneFriend"
)

// LifelineSet tracks availability. Each flag flips true to false exactly once
// per session and never resets.
type LifelineSet struct {
	FiftyFifty  bool `json:"fiftyFifty"`
	AskAudience bool `json:"askAudience"`
	PhoneFriend bool `json:"phoneFriend"`
}

// AllLifelines is the fresh-session set.
func AllLifelines() LifelineSet {
	return LifelineSet{FiftyFifty: true, AskAudience: true, PhoneFriend: true}
}

// Available reports whether the named lifeline is still unused.
func (l LifelineSet) Available(kind LifelineKind) bool {
	switch kind {
	case LifelineFiftyFifty:
		return l.FiftyFifty
	case LifelineAskAudience:
		return l.AskAudience
	case LifelinePhoneFriend:
		return l.PhoneFriend
	}
	return false
}

// Consume flips the named lifeline to used.
func (l *LifelineSet) Consume(kind LifelineKind) {
	switch kind {
	case LifelineFiftyFifty:
		l.FiftyFifty = false
	case LifelineAskAudience:
		l.AskAudience = false
	case LifelinePhoneFriend:
		l.PhoneFriend = false
	}
}

// Snapshot is the serialized session state persisted after every transition.
// Field names mirror the browser client's saved-state blob so either side can
// inspect the payload.
type Snapshot struct {
	Categories  []string          `json:"selectedCategories"`
	Roster      []RosterQuestion  `json:"questions"`
	Index       int               `json:"currentQuestion"`
	Score       int               `json:"score"`
	Timer       int               `json:"timer"`
	TimerPaused bool              `json:"timerPaused"`
	Lifelines   LifelineSet       `json:"lifelines"`
	Eliminated  [OptionCount]bool `json:"eliminated"`
	Active      bool              `json:"gameStarted"`
}
