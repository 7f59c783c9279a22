// Package delivery defines the contract every transport implementation
// (HTTP today, possibly others later) exposes to the application runner.
package delivery

import "context"

// Delivery is a long-running transport server. Serve blocks until the
// server stops; shutdown is driven through the lifecycle hooks registered
// by the concrete implementation.
type Delivery interface {
	Serve(ctx context.Context) error
}
