// Package services holds the domain services that span aggregates.
//
//   - PricingPolicy: subtotal, distance-based delivery fee and tax for a new order
//   - ClaimFirst: the pure retry-with-exhaustion strategy over a ranked candidate list
//   - DriverAssignmentCoordinator: geospatial lookup + ClaimFirst for one delivery
//
// "No driver available" is an AssignmentOutcome with Assigned=false, never an error.
package services
