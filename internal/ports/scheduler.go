package ports

import (
	"context"
	"time"
)

// Scheduler fires a task periodically, one run at a time.
type Scheduler interface {
	Start(ctx context.Context, task func(context.Context)) error
	Stop()
	Pause()
	Resume()
	SetInterval(d time.Duration)
}
