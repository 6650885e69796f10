package permission

import "sort"

// IDSet is a set of permission ids for one axis (pages or buttons).
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Union(other IDSet) IDSet {
	out := make(IDSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

func (s IDSet) Equal(other IDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// List returns the ids sorted, for stable JSON output.
func (s IDSet) List() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// EffectiveSet is the resolved permission set for one identity. It is always
// derived, never persisted, and the two axes never cross-contaminate.
type EffectiveSet struct {
	Pages   IDSet
	Buttons IDSet
}

func (e EffectiveSet) Equal(other EffectiveSet) bool {
	return e.Pages.Equal(other.Pages) && e.Buttons.Equal(other.Buttons)
}

func (e EffectiveSet) HasPage(id string) bool {
	return e.Pages.Has(id)
}

func (e EffectiveSet) HasButton(id string) bool {
	return e.Buttons.Has(id)
}

func (e EffectiveSet) HasAnyPage(ids []string) bool {
	for _, id := range ids {
		if e.Pages.Has(id) {
			return true
		}
	}
	return false
}

func (e EffectiveSet) HasAllPages(ids []string) bool {
	for _, id := range ids {
		if !e.Pages.Has(id) {
			return false
		}
	}
	return true
}

func (e EffectiveSet) HasAnyButton(ids []string) bool {
	for _, id := range ids {
		if e.Buttons.Has(id) {
			return true
		}
	}
	return false
}

func (e EffectiveSet) HasAllButtons(ids []string) bool {
	for _, id := range ids {
		if !e.Buttons.Has(id) {
			return false
		}
	}
	return true
}
