// Package services provides domain services that orchestrate business rules spanning
// more than one aggregate.
//
// The package includes:
//   - CourierMatcher: ranks assignment candidates and applies an assignment to an order
//   - AccessRules: maps order transitions to capabilities and checks staff hierarchy rules
//
// Domain services are stateless and side-effect free with respect to storage; use cases
// load aggregates, call into these services and persist the result.
package services
