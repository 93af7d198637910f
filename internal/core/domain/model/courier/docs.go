// Package courier provides the Courier aggregate: the delivery agent profile attached
// to an actor holding the courier role.
//
// The package includes:
//   - Courier: delivery statistics, running average rating, last known position
//   - Candidate: a courier together with its current load, as ranked by the matcher
//
// Key business rules:
//   - a courier shares its identifier with the owning actor
//   - delivery totals only grow, and only through RecordDelivery
//   - the running rating is recomputed with the post-increment delivery count
//   - every successful reservation bumps the version used for optimistic concurrency
package courier
