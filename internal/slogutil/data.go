// Package slogutil wires log/slog with context-carried attributes and
// rotating file output.
package slogutil

import (
	"context"
	"log/slog"
	"maps"
)

type data map[string]slog.Attr

type dataKey struct{}

func cloneData(ctx context.Context) data {
	d, ok := ctx.Value(dataKey{}).(data)
	if !ok {
		return data{}
	}

	return maps.Clone(d)
}

// WithAttrs returns a new context carrying the given attributes. Attributes
// accumulate across calls; later values win on key collision.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}

	d := cloneData(ctx)
	for _, attr := range attrs {
		d[attr.Key] = attr
	}

	return context.WithValue(ctx, dataKey{}, d)
}

// With returns a new context carrying the given key-value pairs.
func With(ctx context.Context, kvargs ...any) context.Context {
	if len(kvargs) == 0 {
		return ctx
	}

	d := cloneData(ctx)

	var r slog.Record

	r.Add(kvargs...)
	r.Attrs(func(a slog.Attr) bool {
		d[a.Key] = a
		return true
	})

	return context.WithValue(ctx, dataKey{}, d)
}

// Attrs returns the attributes carried by the context.
func Attrs(ctx context.Context) []slog.Attr {
	d, ok := ctx.Value(dataKey{}).(data)
	if !ok {
		return nil
	}

	attrs := make([]slog.Attr, 0, len(d))
	for _, v := range d {
		attrs = append(attrs, v)
	}

	return attrs
}

// dataHook copies context-carried attributes onto every handled record.
type dataHook struct{}

func (dataHook) Run(ctx context.Context, r *slog.Record) {
	r.AddAttrs(Attrs(ctx)...)
}
