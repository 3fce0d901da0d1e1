package ui

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abelbrown/qkart/internal/catalog"
)

// wideLayout is the terminal width from which the grid shows four columns
// instead of two.
const wideLayout = 100

// cardHeight is the rendered height of one card: five content lines plus
// the top and bottom border.
const cardHeight = 7

var pricePrinter = message.NewPrinter(language.English)

// columns returns how many cards fit in a row.
func columns(width int) int {
	if width >= wideLayout {
		return 4
	}
	return 2
}

// formatCost renders a price with thousands grouping: "$50", "$1,299.99".
func formatCost(cost float64) string {
	if cost == math.Trunc(cost) {
		return pricePrinter.Sprintf("$%d", int64(cost))
	}
	return pricePrinter.Sprintf("$%.2f", cost)
}

// formatRating renders a rating as five star slots, half stars rounded down
// to the nearest half: 3.5 -> "★★★½☆".
func formatRating(r float64) string {
	r = math.Max(0, math.Min(r, catalog.MaxRating))
	full := int(r)
	half := r-float64(full) >= 0.5
	empty := catalog.MaxRating - full
	if half {
		empty--
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("½")
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}

// truncateRunes shortens s to at most n runes, marking the cut with "…".
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// renderCard renders one product. width is the total card width including
// the border.
func renderCard(it catalog.Item, selected bool, width int) string {
	style := Card
	if selected {
		style = SelectedCard
	}
	inner := max(width-4, 1) // border + horizontal padding

	lines := []string{
		CardName.Render(truncateRunes(it.Name, inner)),
		CardCost.Render(formatCost(it.Cost)),
		CardRating.Render(formatRating(it.Rating)),
		CardCategory.Render(truncateRunes(it.Category, max(inner-2, 1))),
		CardImage.Render(truncateRunes(it.ImageURL, inner)),
	}
	return style.Width(max(width-2, 1)).Render(strings.Join(lines, "\n"))
}

// renderGrid lays the items out in rows of cards, scrolled so the cursor
// row is visible. Pure function.
func renderGrid(items []catalog.Item, cursor, width, height int) string {
	if len(items) == 0 {
		return ""
	}
	cols := columns(width)
	cardWidth := max(width/cols, 8)

	visibleRows := max(height/cardHeight, 1)
	cursorRow := cursor / cols
	firstRow := max(cursorRow-visibleRows+1, 0)

	var rows []string
	for row := firstRow; row < firstRow+visibleRows; row++ {
		start := row * cols
		if start >= len(items) {
			break
		}
		end := min(start+cols, len(items))

		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(items[i], i == cursor, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
