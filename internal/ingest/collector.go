package ingest

import "context"

type Result[T any] struct {
	Result T
	Err    error
}

// Collector streams parsed records from some source.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
