package factory

import "context"

// Engine defines the simulator's operations
type Engine interface {
	Process(ctx context.Context)
	IsInterfaceNil() bool
}
