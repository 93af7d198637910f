// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding identity, pricing, phase timestamps and courier reference
//   - Status: the directed transition graph every order moves along
//   - LineItem: one priced menu reference inside an order
//   - PricingPolicy: the single fee and tax formula applied to every new order
//   - TrackingEntry: the customer-facing record written for every status change
//
// Key business rules:
//   - Orders start in Pending and only follow the edges of the status graph
//   - Delivered and Cancelled are terminal
//   - Unit prices are always the server-side catalog price at creation time
//   - Phase timestamps never decrease, even if the wall clock does
//   - Every status change yields exactly one TrackingEntry
package order
