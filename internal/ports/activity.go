package ports

import "context"

type ActivityDetector interface {
	IsProjectActive(ctx context.Context) bool
}
