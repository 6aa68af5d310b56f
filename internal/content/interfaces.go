package content

import "context"

// Loader produces a validated Library. Implementations fail on the first
// malformed record.
type Loader interface {
	Load(ctx context.Context) (*Library, error)
}
