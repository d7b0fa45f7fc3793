package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"spotprice/backend-go/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	priceStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 4).
			Align(lipgloss.Center)

	noDataStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Foreground(lipgloss.Color("#B91C1C")).
			Bold(true).
			Padding(1, 4).
			Align(lipgloss.Center)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	amountStyle = lipgloss.NewStyle().
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// RenderResult draws a price box for OK results and a two-line message box
// for no-data results, using only the fields the backend provides.
func RenderResult(name string, res models.PriceResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(name + " Price Lookup"))
	b.WriteString("\n")

	switch res.Kind {
	case models.KindOK:
		body := strings.Join([]string{
			mutedStyle.Render("Price on " + displayDate(res.Date)),
			amountStyle.Render(res.Display),
			mutedStyle.Render(res.Unit),
		}, "\n")
		b.WriteString(priceStyle.Render(body))
	case models.KindNoData:
		lines := res.Prefix
		if res.DatePart != "" {
			lines += "\n" + res.DatePart
		}
		b.WriteString(noDataStyle.Render(lines))
	default:
		b.WriteString(RenderError(fmt.Errorf("unexpected result kind %q", res.Kind)))
	}
	return b.String()
}

func RenderError(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}

// displayDate shows YYYY-MM-DD as DD-MM-YYYY, the form's display format.
func displayDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("02-01-2006")
}
