// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the light or dark palette.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode parses a theme name. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeDark, ModeLight:
		return m, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want auto, dark, or light)", s)
	}
}

// Theme holds all the styled components for the application.
type Theme struct {
	Mode         Mode
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header          lipgloss.Style
	HeaderTitle     lipgloss.Style
	HeaderSubtitle  lipgloss.Style
	SessionBadge    lipgloss.Style
	SessionBadgeNew lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	Timestamp       lipgloss.Style
	IntentTag       lipgloss.Style
	NewMarker       lipgloss.Style
	FeedbackUp      lipgloss.Style
	FeedbackDown    lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer         lipgloss.Style
	InputContainerDisabled lipgloss.Style
	CharCount              lipgloss.Style
	CharCountWarning       lipgloss.Style
	CharCountDanger        lipgloss.Style

	// ==========================================================================
	// TYPING INDICATOR
	// ==========================================================================

	Spinner    lipgloss.Style
	TypingText lipgloss.Style

	// ==========================================================================
	// WELCOME AND ONBOARDING
	// ==========================================================================

	WelcomeBox       lipgloss.Style
	WelcomeTitle     lipgloss.Style
	WelcomeCard      lipgloss.Style
	WelcomeCardTitle lipgloss.Style
	WelcomeHint      lipgloss.Style
	NameBox          lipgloss.Style
	NamePrompt       lipgloss.Style

	// ==========================================================================
	// ERROR BANNER
	// ==========================================================================

	BannerWarning lipgloss.Style
	BannerError   lipgloss.Style

	// ==========================================================================
	// CONFIRM DIALOG
	// ==========================================================================

	ConfirmBox          lipgloss.Style
	ConfirmTitle        lipgloss.Style
	ConfirmButton       lipgloss.Style
	ConfirmButtonActive lipgloss.Style

	// ==========================================================================
	// FOOTER
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Toast        lipgloss.Style
}

// NewTheme creates a theme. ModeAuto asks the terminal for its background.
func NewTheme(mode Mode) *Theme {
	isDark := true
	switch mode {
	case ModeLight:
		isDark = false
	case ModeDark:
	default:
		mode = ModeAuto
		isDark = termenv.HasDarkBackground()
	}

	// AdaptiveColor resolves against the default renderer.
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// Toggle returns a theme with the opposite palette, keeping the size.
func (t *Theme) Toggle() *Theme {
	next := ModeDark
	if t.IsDark {
		next = ModeLight
	}
	nt := NewTheme(next)
	nt.SetSize(t.Width, t.Height)
	return nt
}

// GlamourStyle names the glamour standard style matching the palette.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// initStyles initializes all the lipgloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.SessionBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 1)

	t.SessionBadgeNew = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(OverlayDim).
		Padding(0, 1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.IntentTag = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceBright).
		Padding(0, 1)

	t.NewMarker = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.FeedbackUp = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.FeedbackDown = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.InputContainerDisabled = t.InputContainer.
		BorderForeground(OverlayDim)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Typing indicator
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.TypingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Welcome and onboarding
	t.WelcomeBox = lipgloss.NewStyle().
		Padding(1, 2).
		Align(lipgloss.Center)

	t.WelcomeTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.WelcomeCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1).
		Width(24)

	t.WelcomeCardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.WelcomeHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		MarginTop(1)

	t.NameBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.NamePrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	// Error banner
	t.BannerWarning = lipgloss.NewStyle().
		Foreground(Amber).
		Background(AmberDeep).
		Bold(true).
		Padding(0, 1)

	t.BannerError = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseDeep).
		Bold(true).
		Padding(0, 1)

	// Confirm dialog
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(1, 3)

	t.ConfirmTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.ConfirmButton = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.ConfirmButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Bold(true).
		Padding(0, 2)

	// Footer
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Toast = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
