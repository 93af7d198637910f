// Package access models who may do what: actors, the closed set of roles with their
// precomputed capability sets, time-bound capability grants, sessions and the
// authentication lockout policy.
//
// Key business rules:
//   - an active actor always holds exactly one role; promotion replaces it in one step
//   - capped roles (super_admin, admin) never have more active members than their cap
//   - super_admin is allowed every capability
//   - repeated failed logins lock the account for a cool-down period
//   - actors are never deleted, only deactivated
package access
