// Package order holds the Order aggregate and its lifecycle state machine.
//
// The transition table lives in status.go and is pure data: it answers whether a move
// between two statuses is legal and nothing else. The cancellation window (only PENDING
// and ACCEPTED orders may be cancelled) is a second policy layer applied by Order.Cancel
// on top of the table.
//
// Order carries a version token. Every status change increments it by exactly one, and
// the persistence adapter writes the change only if the stored version still equals
// ExpectedVersion, so exactly one concurrent writer wins per version value.
package order
