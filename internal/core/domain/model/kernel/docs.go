// Package kernel holds the value objects shared by every aggregate of the order core:
//   - UUID: identifier wrapper that rejects the nil UUID
//   - GeoPoint: validated WGS84 coordinate with haversine distance
//   - money helpers rounding shopspring decimals to cents
//
// Values are immutable and safe for concurrent use.
package kernel
