// Package errs provides the error types shared by the order lifecycle core.
//
// Each type follows the same shape: a sentinel variable, a struct carrying the details,
// constructors with and without a cause, Error() and Unwrap() returning the sentinel.
//
// Input validation:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//
// Lifecycle outcomes:
//   - ObjectNotFoundError: referenced order, restaurant, menu item, address or driver missing
//   - InvalidTransitionError: status change absent from the transition table
//   - BusinessRuleError: closed restaurant, unavailable item, below minimum, cancellation window
//   - VersionConflictError: optimistic write lost the race, reload and retry
//
// Classify folds all of them into the four caller-facing kinds (NotFound, BadRequest,
// Conflict, Internal). "No driver available" is deliberately not an error; see
// services.AssignmentOutcome.
package errs
