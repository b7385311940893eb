// Package delivery defines the outer transport surfaces of the service.
package delivery

import "context"

// Delivery is a transport that serves until its context is cancelled or it is shut down.
type Delivery interface {
	Serve(ctx context.Context) error
}
