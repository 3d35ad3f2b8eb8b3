package game

import "dev-millionaire-service/internal/domain"

var optionLabels = [domain.OptionCount]string{"A", "B", "C", "D"}

const urgentThreshold = 10

// View renders the engine state into the snapshot the presentation layer
// consumes. The client draws exactly what it is handed.
func (e *Engine) View() domain.View {
	view := domain.View{
		Phase:          e.phase,
		TotalQuestions: domain.RosterSize,
		Timer:          e.timer,
		TimerRunning:   e.timerRunning,
		Score:          e.score,
		Lifelines:      e.lifelines,
		Modal:          e.modal,
		End:            e.end,
	}

	if e.Ended() || e.index >= len(e.roster) {
		return view
	}

	q := e.roster[e.index]
	view.QuestionNumber = e.index + 1
	view.Question = q.Text
	view.Urgent = e.timer <= urgentThreshold
	view.Options = make([]domain.OptionView, domain.OptionCount)
	for display := 0; display < domain.OptionCount; display++ {
		original := q.OptionOrder[display]
		view.Options[display] = domain.OptionView{
			Label:      optionLabels[display],
			Text:       q.Options[original],
			Eliminated: e.eliminated[display],
			Correct:    e.revealed && original == q.Answer,
			Wrong:      display == e.wrongPick,
		}
	}
	return view
}
