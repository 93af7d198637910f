// Package kernel provides the value objects shared by every aggregate of orderhub.
//
// The package includes:
//   - UUID: identifier value object with validation and comparison
//   - GeoPoint: a validated latitude/longitude pair reported by courier devices
//   - Money: an integer amount in minor currency units with half-up percentage rounding
//
// Values are immutable and validated at construction, so aggregates built from them
// only need to check that they were constructed at all.
package kernel
