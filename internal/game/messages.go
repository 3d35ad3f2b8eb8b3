package game

// Flavor copy shown by the host. The tone is part of the product.

type milestoneCopy struct {
	title, body string
}

// milestones keys the transition messages by the 0-based question index the
// player just cleared.
var milestones = map[int]milestoneCopy{
	4:  {"Impressive...", "You cleared the easy questions. Don't get cocky."},
	9:  {"Still Here?", "Medium questions done. The real test begins now."},
	12: {"A Fluke, Surely.", "Hard questions defeated. Prepare for pain."},
}

var (
	wrongTitles = []string{"Wrong!", "Not even close.", "Seriously?", "Ouch. That's embarrassing."}
	wrongBodies = []string{"The correct answer was so obvious.", "Maybe try a different career path.", "My dog knew that one."}

	timeoutTitles = []string{"Too slow!", "Time's up, genius.", "The clock beat you."}
	timeoutBodies = []string{"You hesitated and lost. Pathetic.", "Should've answered faster.", "The correct answer is now irrelevant."}
)

const (
	winTitle    = "IMPOSSIBLE!"
	winMessage  = "You actually... won? I demand a recount. You cheated."
	loseTitle   = "Game Over. As Expected."
	loseTimeout = "You were too slow!"
	loseWrong   = "That was a terrible guess."
)

var friendNames = []string{"Sarcastic Steve", "Unhelpful Uma", "Clueless Chad", "Devilish Deb"}

// phoneLines holds the friend's per-tier phrasing; the friend gets less
// confident as the questions get harder.
var phoneLines = map[int][]string{
	1: {"Are you serious? It's obviously", "I can't believe you're using a lifeline for this. It's"},
	2: {"Ugh, fine. I *think* it's", "I'm busy, but I guess it's"},
	3: {"I have literally no idea. Let's say...", "You're on your own. But if I had to guess, maybe"},
	4: {"Why are you asking me?! Just pick", "I'm hanging up. Maybe try"},
}
