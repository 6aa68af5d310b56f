package devtools

import "context"

// Backend is the running app as seen from the dev surface.
type Backend interface {
	State() State
	Dispatch(ev Event) error
	RunDemo(ctx context.Context, name string) (string, error)
}

type Demo interface {
	Resolve(name string) Scenario
	Names() []string
}
