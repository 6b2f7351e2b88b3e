package response

import "context"

type builderKey struct{}

// WithBuilder attaches the request's builder to ctx.
func WithBuilder(ctx context.Context, b *Builder) context.Context {
	return context.WithValue(ctx, builderKey{}, b)
}

// From returns the builder attached to ctx, or a new one when the request did
// not pass through the request id middleware.
func From(ctx context.Context) *Builder {
	if b, ok := ctx.Value(builderKey{}).(*Builder); ok {
		return b
	}
	return New("")
}
