package render

import "github.com/charmbracelet/lipgloss"

// Rosé Pine Moon palette
// https://rosepinetheme.com/palette/
var (
	// ColorDesktop is the desktop background fill — the area left behind
	// once a window's shortcut-grid slot is unoccluded (spec.md §4.6,
	// "drawable-rect sets... union equals the screen minus the desktop
	// background area").
	ColorDesktop = lipgloss.Color("#232136")
	// ColorChrome is the window title-bar fill when unfocused.
	ColorChrome = lipgloss.Color("#2a273f")
	// ColorChromeActive is the window title-bar fill when focused (top of z-order).
	ColorChromeActive = lipgloss.Color("#393552")
	ColorMuted        = lipgloss.Color("#6e6a86")
	ColorSubtle       = lipgloss.Color("#908caa")
	ColorText         = lipgloss.Color("#e0def4")

	// ColorCloseButton / ColorCloseButtonHover render the title bar's close
	// button (spec.md §4.6), ColorMinButton / ColorMinButtonHover the
	// minimize button.
	ColorCloseButton      = lipgloss.Color("#eb6f92")
	ColorCloseButtonHover = lipgloss.Color("#f590ac")
	ColorMinButton        = lipgloss.Color("#f6c177")
	ColorMinButtonHover    = lipgloss.Color("#f9d39a")

	// ColorCursor* color-code the cursor sprite by interaction state
	// (spec.md §4.7 step 5): default, over a resizable edge, over a
	// draggable title bar.
	ColorCursorDefault = lipgloss.Color("#e0def4")
	ColorCursorResize  = lipgloss.Color("#3e8fb0")
	ColorCursorMove    = lipgloss.Color("#c4a7e7")
)
