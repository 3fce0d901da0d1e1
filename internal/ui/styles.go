package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarning   = lipgloss.Color("214") // Amber
	colorError     = lipgloss.Color("196") // Red
	colorBrand     = lipgloss.Color("35")  // QKart green
)

// HeaderTitle renders the "QKart" brand.
var HeaderTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorBrand).
	Padding(0, 1)

// HeroText is the tagline under the header.
var HeroText = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Italic(true).
	Padding(0, 1)

// SearchBar frames the query input.
var SearchBar = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// SearchPrompt is the prompt in front of the query.
var SearchPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// Card is an unselected product card.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// SelectedCard is the card under the cursor.
var SelectedCard = Card.
	BorderForeground(colorHighlight)

// CardName style for the product name.
var CardName = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// CardCost style for the price.
var CardCost = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// CardRating style for the stars.
var CardRating = lipgloss.NewStyle().
	Foreground(colorWarning)

// CardCategory style for the category badge.
var CardCategory = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// CardImage style for the image URL line.
var CardImage = lipgloss.NewStyle().
	Foreground(colorMuted)

// EmptyState style for the "No products found" message.
var EmptyState = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(1, 2)

// LoadingStyle for the spinner line.
var LoadingStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(1, 2)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Notice styles, one per severity.
var (
	NoticeError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(colorError).
			Bold(true).
			Padding(0, 1)

	NoticeWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(colorWarning).
			Padding(0, 1)

	NoticeInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(colorPrimary).
			Padding(0, 1)

	NoticeSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(colorSuccess).
			Padding(0, 1)
)

// DebugPanel frames the debug overlay. debugPanelChrome depends on its
// border and padding.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(1, 1)

// DebugHeaderStyle for section headers inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
