package service

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

// startTiming records a Server-Timing metric when ctx carries timing info.
// The returned func stops the metric and is always safe to call.
func startTiming(ctx context.Context, name, description string) func() {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return func() {}
	}
	metric := timing.NewMetric(name).WithDesc(description).Start()
	return func() { metric.Stop() }
}
