// Package activity models the append-only system-wide activity ledger.
//
// Every state change in orderhub writes exactly one Entry inside the same unit of work
// as the change itself, so a change is never visible without its audit record.
// Entries are never updated or deleted.
package activity
