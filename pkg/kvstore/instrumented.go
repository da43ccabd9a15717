package kvstore

import (
	"context"
	"strings"
	"time"
)

// ObserveFunc receives the latency of one store operation.
type ObserveFunc func(op, key string, duration time.Duration)

// Instrumented wraps a Store and reports per-operation latency.
type Instrumented struct {
	next    Store
	observe ObserveFunc
}

// NewInstrumented wraps store. A nil observe makes it a passthrough.
func NewInstrumented(store Store, observe ObserveFunc) *Instrumented {
	return &Instrumented{next: store, observe: observe}
}

func (i *Instrumented) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := i.next.Get(ctx, key)
	i.report("get", key, start)
	return value, err
}

func (i *Instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.next.Set(ctx, key, value)
	i.report("set", key, start)
	return err
}

func (i *Instrumented) Remove(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := i.next.Remove(ctx, keys...)
	i.report("remove", strings.Join(keys, ","), start)
	return err
}

func (i *Instrumented) report(op, key string, start time.Time) {
	if i.observe == nil {
		return
	}
	i.observe(op, key, time.Since(start))
}
