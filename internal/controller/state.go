package controller

import (
	"github.com/valpere/nebo/pkg/weather"
)

// Phase is a coarse view of UIState for renderers. It is derived, never stored.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSearchOpen
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSearchOpen:
		return "search_open"
	case PhaseLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// UIState is an immutable snapshot of what the view should show.
type UIState struct {
	SearchVisible bool               `json:"search_visible"`
	Candidates    []weather.Location `json:"candidates"`
	Report        *weather.Report    `json:"report"`
	Loading       bool               `json:"loading"`
}

// Phase collapses the flags, loading first.
func (s UIState) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.SearchVisible:
		return PhaseSearchOpen
	case s.Report != nil:
		return PhaseLoaded
	default:
		return PhaseIdle
	}
}
