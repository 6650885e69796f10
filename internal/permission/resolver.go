package permission

import (
	"github.com/frahmantamala/workorder-management/internal"
)

// Resolver computes the effective permission set for an identity. Resolve is
// pure: same identity and registry state always yield the same set, and the
// set is recomputed on every call, never cached.
type Resolver struct {
	registry Registry
	defaults EffectiveSet
}

type ResolverOption func(*Resolver)

// WithDefaults overrides the process default set, mainly for tests.
func WithDefaults(defaults EffectiveSet) ResolverOption {
	return func(r *Resolver) {
		r.defaults = defaults
	}
}

func NewResolver(registry Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: registry,
		defaults: DefaultSet(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements the resolution algorithm:
//
//  1. super admins get the full catalog on both axes;
//  2. everyone starts from the default set;
//  3. no department means the default set as-is;
//  4. a registry miss (unknown department) also degrades to the default set;
//  5. otherwise the department/role grant is unioned with the defaults,
//     per axis, pages and buttons independently.
func (r *Resolver) Resolve(id internal.Identity) EffectiveSet {
	if id.IsSuperAdmin() {
		return SuperAdminSet()
	}

	base := EffectiveSet{
		Pages:   r.defaults.Pages.Union(nil),
		Buttons: r.defaults.Buttons.Union(nil),
	}

	if id.Department == "" {
		return base
	}

	grant, ok := r.registry.Get(id.Department, id.Role)
	if !ok {
		// lookup misses are not errors: fail open to the default set
		return base
	}

	return EffectiveSet{
		Pages:   NewIDSet(grant.Pages...).Union(base.Pages),
		Buttons: NewIDSet(grant.Buttons...).Union(base.Buttons),
	}
}

func (r *Resolver) HasPagePermission(id internal.Identity, page string) bool {
	return r.Resolve(id).HasPage(page)
}

func (r *Resolver) HasButtonPermission(id internal.Identity, button string) bool {
	return r.Resolve(id).HasButton(button)
}
