package shellexec

import (
	"context"
	"time"
)

// Runner executes one command with a hard timeout. Implementations are safe
// for concurrent use.
type Runner interface {
	Execute(ctx context.Context, cmd Command, timeout time.Duration) (Result, error)
}
