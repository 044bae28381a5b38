package domain

import "context"

// WriterPort appends alerts
type WriterPort interface {
	Add(ctx context.Context, in AlertInput) (Alert, error)
}

// QueryPort reads alerts back
type QueryPort interface {
	Recent(ctx context.Context, in ListInput) ([]Alert, error)
	Acknowledge(ctx context.Context, id string) error
}
