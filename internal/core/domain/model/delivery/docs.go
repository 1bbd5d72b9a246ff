// Package delivery provides the Delivery entity paired 1:1 with an order at creation.
// It owns the pickup and dropoff points, the computed distance and the driver link,
// which goes from nil to set exactly once.
package delivery
