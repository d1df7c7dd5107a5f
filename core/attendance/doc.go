// Package attendance implements the verification protocol and issuance
// service for proof-of-presence claims.
//
// The credential engine (core/totp) is pure and would happily accept the
// same code any number of times inside its skew window; this package layers
// the stateful guarantees above it. SubmitClaim runs a fixed pipeline:
//
//  1. session liveness (unknown, closed, and expired are one outcome)
//  2. credential verification against the presenter's secret
//  3. atomic replay guard; exactly one of any concurrent duplicates wins
//  4. proximity check, when the session registered a location
//  5. durable record write
//
// The guard entry is committed before the record write. A failed write
// therefore surfaces as ErrPersistence while the slot stays consumed:
// resubmitting the identical claim is rejected as a duplicate and the gap is
// resolved by reconciliation against the record store, never by treating the
// retry as a fresh claim.
//
// Issue is the read-only counterpart: it pairs an open session with its
// current code so the caller can render the result as a scannable image
// (pkg/qrcode) and refresh it each time step.
package attendance
