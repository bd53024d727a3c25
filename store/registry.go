package store

import "github.com/clinicport/portal/models"

// Registry maps each principal kind to its credential store. It is built once
// at startup and never mutated, so route handlers can dispatch on a session's
// kind without hardcoding a store.
type Registry struct {
	stores map[models.Kind]PrincipalStore
}

func NewRegistry(patients, practitioners, administrators PrincipalStore) *Registry {
	return &Registry{stores: map[models.Kind]PrincipalStore{
		models.KindPatient:       patients,
		models.KindPractitioner:  practitioners,
		models.KindAdministrator: administrators,
	}}
}

func (r *Registry) Store(k models.Kind) (PrincipalStore, bool) {
	s, ok := r.stores[k]
	return s, ok
}
