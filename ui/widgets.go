package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line and returns the new Y position.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labelled bar for a fraction in [0, 1] and returns the new Y position.
func (r *Renderer) DrawBar(x, y int32, label string, fraction float64, width int32) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	if fill := barFill(fraction, barWidth); fill > 0 {
		rl.DrawRectangle(barX, y+2, fill, r.Theme.BarHeight, r.Theme.BarFill)
	}
	return y + r.Theme.LineHeight
}

// barFill returns the filled width of a bar, clamping fraction to [0, 1].
func barFill(fraction float64, width int32) int32 {
	if fraction != fraction || fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return width
	}
	return int32(fraction * float64(width))
}
