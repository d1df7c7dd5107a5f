// Package session tracks attendance sessions: one presenter-initiated
// gathering each, bound to the presenter's shared secret and either Open or
// Closed. Closed is terminal.
//
// The Registry is the only writer of session state. It enforces that
// presenters are provisioned before opening, closes idempotently, and applies
// policy-driven expiry lazily during Lookup: a session past its MaxAge reads
// as Closed even if nobody ever closed it, without any background sweeper.
//
//	registry := session.NewRegistry(store, vault,
//		session.WithMaxAge(2*time.Hour),
//	)
//
//	sess, err := registry.Open(ctx, "teacher-1", session.OpenParams{
//		Location:        &geo.Location{Latitude: 52.52, Longitude: 13.405},
//		ProximityRadius: 50,
//	})
//
// Callers checking whether a session can accept claims must treat ErrNotFound
// from Lookup and a returned Closed session the same way.
package session
