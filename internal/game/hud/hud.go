// Package hud holds the on-screen text of the scene. The window title
// displays it and the renderer draws the loading overlay from it.
package hud

import (
	"fmt"
	"strings"
)

const (
	ModeSlow   = "SLOW MODE: ON (T)"
	ModeNormal = "SLOW MODE: OFF (T)"
)

// HUD is the text state refreshed every frame.
type HUD struct {
	Mode   string
	Prompt string
	Status string

	Loading  bool
	Progress float32
	// Phase names the last boot stage reached while loading.
	Phase string

	FPS     int
	ShowFPS bool
}

// ModeText returns the slow-motion indicator.
func ModeText(slow bool) string {
	if slow {
		return ModeSlow
	}
	return ModeNormal
}

// Title composes the window title from the visible elements.
func (h HUD) Title(base string) string {
	parts := []string{base}
	if h.Loading {
		p := fmt.Sprintf("Loading %.0f%%", h.Progress*100)
		if h.Phase != "" {
			p += " (" + h.Phase + ")"
		}
		parts = append(parts, p)
	}
	if h.Mode != "" {
		parts = append(parts, h.Mode)
	}
	if h.Prompt != "" {
		parts = append(parts, h.Prompt)
	}
	if h.Status != "" {
		parts = append(parts, h.Status)
	}
	if h.ShowFPS {
		parts = append(parts, fmt.Sprintf("%d fps", h.FPS))
	}
	return strings.Join(parts, " | ")
}
