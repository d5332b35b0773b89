package statsgrid

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mverma/stride/internal/models"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(20)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	periodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model renders the four weekly stat cards: steps, water, sleep, and goal
// completion. It holds no behavior beyond display.
type Model struct {
	agg    models.WeeklyAggregate
	hasAgg bool
}

func New() Model {
	return Model{}
}

func (m *Model) SetAggregate(agg models.WeeklyAggregate) {
	m.agg = agg
	m.hasAgg = true
}

func (m *Model) Clear() {
	m.agg = models.WeeklyAggregate{}
	m.hasAgg = false
}

func (m Model) View() string {
	if !m.hasAgg {
		return cardStyle.Render("Weekly stats\nnot loaded yet")
	}

	cards := []string{
		card("Total Steps", formatSteps(m.agg.TotalSteps), "This week"),
		card("Water Intake", fmt.Sprintf("%.1fL", m.agg.TotalWaterLiters), "This week"),
		card("Sleep Hours", fmt.Sprintf("%.1fh", m.agg.TotalSleepHours), "This week"),
		card("Weekly Goal", fmt.Sprintf("%d%%", m.agg.ProgressPercentage), "7-day completion"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(title, value, period string) string {
	return cardStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		valueStyle.Render(value),
		periodStyle.Render(period),
	))
}

// formatSteps adds thousands separators for readability.
func formatSteps(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
