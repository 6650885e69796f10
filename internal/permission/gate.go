package permission

import (
	"github.com/frahmantamala/workorder-management/internal"
)

type MatchMode string

const (
	MatchAny MatchMode = "any"
	MatchAll MatchMode = "all"
)

// Requirement is what a caller demands before showing protected content.
// Empty axes always pass; an unset mode means MatchAny.
type Requirement struct {
	Pages      []string
	PageMode   MatchMode
	Buttons    []string
	ButtonMode MatchMode
}

// Outcome is the gate's tri-state-plus decision. Loading is deliberately
// distinct from both Granted and Fallback: callers must not treat an
// in-flight identity resolution as a denial.
type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeLoginRequired
	OutcomeFallback
	OutcomeGranted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeLoginRequired:
		return "login_required"
	case OutcomeFallback:
		return "fallback"
	case OutcomeGranted:
		return "granted"
	}
	return "unknown"
}

// State is the identity-resolution snapshot the gate evaluates against.
type State struct {
	Loading  bool
	Identity *internal.Identity
}

// Gate decides whether protected content may be shown. It is a read-only
// guard: no side effects, never an error, the most conservative non-crashing
// outcome on any degenerate input.
type Gate struct {
	resolver *Resolver

	// ShowLoginReminder selects OutcomeLoginRequired over OutcomeFallback
	// for unauthenticated callers.
	ShowLoginReminder bool
}

func NewGate(resolver *Resolver) *Gate {
	return &Gate{resolver: resolver, ShowLoginReminder: true}
}

func (g *Gate) Evaluate(s State, req Requirement) Outcome {
	if s.Loading {
		return OutcomeLoading
	}

	if s.Identity == nil {
		if g.ShowLoginReminder {
			return OutcomeLoginRequired
		}
		return OutcomeFallback
	}

	resolved := g.resolver.Resolve(*s.Identity)

	if pageOK(resolved, req) && buttonOK(resolved, req) {
		return OutcomeGranted
	}
	return OutcomeFallback
}

func pageOK(resolved EffectiveSet, req Requirement) bool {
	if len(req.Pages) == 0 {
		return true
	}
	if req.PageMode == MatchAll {
		return resolved.HasAllPages(req.Pages)
	}
	return resolved.HasAnyPage(req.Pages)
}

func buttonOK(resolved EffectiveSet, req Requirement) bool {
	if len(req.Buttons) == 0 {
		return true
	}
	if req.ButtonMode == MatchAll {
		return resolved.HasAllButtons(req.Buttons)
	}
	return resolved.HasAnyButton(req.Buttons)
}
