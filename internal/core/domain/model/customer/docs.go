// Package customer holds the customer-side records order placement reads and updates:
// delivery addresses and the lifetime order counter.
package customer
