package ctxlogger

import (
	"context"

	"go.uber.org/zap"
)

type (
	invocationKey struct{}
	commandKey    struct{}
)

// ContextWithInvocation tags the context with the ID of one CLI run.
func ContextWithInvocation(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, invocationKey{}, id)
}

// ContextWithCommand tags the context with the subcommand being executed.
func ContextWithCommand(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, commandKey{}, name)
}

func InvocationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}

// FromContext returns the global logger enriched with context metadata.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext enriches base with the invocation and command carried by ctx.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil {
		return base
	}

	fields := make([]zap.Field, 0, 2)
	if id := InvocationID(ctx); id != "" {
		fields = append(fields, zap.String("invocation_id", id))
	}
	if name, ok := ctx.Value(commandKey{}).(string); ok && name != "" {
		fields = append(fields, zap.String("command", name))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
