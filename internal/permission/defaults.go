package permission

// DefaultSet is the baseline granted to every authenticated identity,
// including identities with no department mapping at all.
func DefaultSet() EffectiveSet {
	return EffectiveSet{
		Pages:   NewIDSet(PageMessages, PageWorkOrderList, PageWorkOrderDetail),
		Buttons: NewIDSet(),
	}
}

// SuperAdminSet is the wildcard: every id in both catalogs.
func SuperAdminSet() EffectiveSet {
	return EffectiveSet{
		Pages:   NewIDSet(PageIDs()...),
		Buttons: NewIDSet(ButtonIDs()...),
	}
}
