// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import (
	"context"
	"log/slog"

	"github.com/bpowers/dat/internal/doublearray"
)

// ProgressFunc is invoked synchronously from the builder's goroutine as
// leaves are emitted. It must not call back into the Builder.
type ProgressFunc func(leavesCompleted, totalRecords int)

type builderOptions struct {
	logger       *slog.Logger
	width        doublearray.Width
	progress     ProgressFunc
	withChecksum bool
}

func defaultBuilderOptions() builderOptions {
	return builderOptions{
		logger:       slog.New(discardHandler{}),
		width:        doublearray.Width5,
		withChecksum: true,
	}
}

// BuilderOption configures a Builder constructed with NewBuilder.
type BuilderOption func(*builderOptions)

// WithBuilderLogger sets the logger a Builder uses for build-time
// diagnostics and statistics. The default logger discards all output.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(o *builderOptions) {
		o.logger = logger
	}
}

// WithElementWidth selects the packed element width of the resulting
// double array: 4 bytes (compact, smaller capacity) or 5 bytes (default).
func WithElementWidth(width doublearray.Width) BuilderOption {
	return func(o *builderOptions) {
		o.width = width
	}
}

// WithProgressCallback registers a callback invoked as each leaf is placed
// during Build.
func WithProgressCallback(fn ProgressFunc) BuilderOption {
	return func(o *builderOptions) {
		o.progress = fn
	}
}

// WithChecksum controls whether Write emits the optional CKSM integrity
// chunk. It is enabled by default.
func WithChecksum(enabled bool) BuilderOption {
	return func(o *builderOptions) {
		o.withChecksum = enabled
	}
}

type tableOptions struct {
	logger *slog.Logger
}

func defaultTableOptions() tableOptions {
	return tableOptions{
		logger: slog.New(discardHandler{}),
	}
}

// TableOption configures a Table constructed with Open or Load.
type TableOption func(*tableOptions)

// WithTableLogger sets the logger a Table uses for load-time diagnostics.
func WithTableLogger(logger *slog.Logger) TableOption {
	return func(o *tableOptions) {
		o.logger = logger
	}
}

// discardHandler is a slog.Handler that drops every record; it backs the
// default logger so callers who don't care about diagnostics pay nothing.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs(attrs []slog.Attr) slog.Handler  { return discardHandler{} }
func (discardHandler) WithGroup(name string) slog.Handler        { return discardHandler{} }
