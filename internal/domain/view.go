package domain

// Phase labels the coarse session state as reported to the presentation layer.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseSuspended Phase = "suspended"
	PhaseWon       Phase = "won"
	PhaseLost      Phase = "lost"
)

// OptionView is one rendered answer option.
type OptionView struct {
	Label      string `json:"label"` // A, B, C or D
	Text       string `json:"text"`
	Eliminated bool   `json:"eliminated"`
	Correct    bool   `json:"correct"` // revealed after an answer or timeout
	Wrong      bool   `json:"wrong"`   // the player's incorrect pick
}

// Modal is a blocking dialog: milestone message, lifeline result or
// end-of-game taunt. While a modal is visible the countdown is paused.
type Modal struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Audience map[string]int `json:"audience,omitempty"` // option label -> percent
}

// Result is the terminal outcome shown on the end screen.
type Result struct {
	Won     bool   `json:"won"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Prize   string `json:"prize"`
}

// View is the full state snapshot the presentation layer renders. It carries
// everything the client needs; the client keeps no game logic of its own.
type View struct {
	Phase          Phase        `json:"phase"`
	QuestionNumber int          `json:"questionNumber"` // 1-based rung, 0 when ended
	TotalQuestions int          `json:"totalQuestions"`
	Question       string       `json:"question,omitempty"`
	Options        []OptionView `json:"options,omitempty"`
	Timer          int          `json:"timer"`
	TimerRunning   bool         `json:"timerRunning"`
	Urgent         bool         `json:"urgent"` // 10s or less remaining
	Score          int          `json:"score"`
	Lifelines      LifelineSet  `json:"lifelines"`
	Modal          *Modal       `json:"modal,omitempty"`
	End            *Result      `json:"end,omitempty"`
}
