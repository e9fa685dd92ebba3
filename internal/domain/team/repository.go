package team

import "context"

// Repository describes team reference-data reads from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
}
