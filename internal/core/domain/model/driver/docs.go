// Package driver provides the Driver aggregate: identity, last reported position,
// rating, and the availability/status pair that the assignment coordinator claims.
//
// Key business rules:
//   - available drivers are always ONLINE
//   - only the assignment coordinator moves a driver into BUSY (Claim)
//   - a BUSY driver cannot go offline or on break until released on delivery
package driver
