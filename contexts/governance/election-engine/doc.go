// Package electionengine runs homeowners association elections inside the
// governance context.
//
// The module owns proposal and board election lifecycles (scheduling, opening,
// voting, concluding), board candidacy gated by the eligibility chain, and
// election event production through an outbox-backed relay. Membership
// history arrives from the membership service as events and is projected
// locally. Business rules stay in the domain and application layers while
// storage, locking and transport sit behind ports.
package electionengine
