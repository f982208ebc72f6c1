package linkedqueue

import (
	"go.uber.org/zap"

	"github.com/timzifer/linkedqueue/internal/alloc"
	"github.com/timzifer/linkedqueue/internal/telemetry"
)

type (
	// Allocator grants and takes back the blocks a queue owns.
	Allocator = alloc.Allocator
	// BlockKind identifies what an allocated block is used for.
	BlockKind = alloc.Kind
)

const (
	BlockHead    = alloc.KindHead
	BlockElement = alloc.KindElement
	BlockText    = alloc.KindText
)

type options struct {
	allocator Allocator
	logger    *zap.Logger
	metrics   *telemetry.QueueMetrics
}

func defaultOptions() options {
	return options{
		allocator: alloc.Heap{},
		logger:    zap.NewNop(),
		metrics:   telemetry.DefaultQueueMetrics(),
	}
}

type Option func(*options)

// WithAllocator sets the allocator asked for every block the queue owns.
func WithAllocator(a Allocator) Option {
	return func(opts *options) {
		if a != nil {
			opts.allocator = a
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithMetrics replaces the process-wide metrics with m.
func WithMetrics(m *telemetry.QueueMetrics) Option {
	return func(opts *options) {
		if m != nil {
			opts.metrics = m
		}
	}
}
