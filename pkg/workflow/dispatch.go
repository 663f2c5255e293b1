package workflow

import (
	"context"
	"fmt"

	"github.com/xrsl/reachout/pkg/drafting"
)

// Dispatcher delivers a finalized draft and returns a human readable outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, d drafting.Draft, attachmentPath string) (string, error)
}

// DispatcherFunc adapts a function to Dispatcher
type DispatcherFunc func(ctx context.Context, d drafting.Draft, attachmentPath string) (string, error)

func (f DispatcherFunc) Dispatch(ctx context.Context, d drafting.Draft, attachmentPath string) (string, error) {
	return f(ctx, d, attachmentPath)
}

// Router picks a dispatcher by draft type
type Router map[drafting.ContentType]Dispatcher

func (r Router) Dispatch(ctx context.Context, d drafting.Draft, attachmentPath string) (string, error) {
	dst, ok := r[d.Type]
	if !ok || dst == nil {
		return "", fmt.Errorf("no delivery configured for %s", d.Type.Label())
	}
	return dst.Dispatch(ctx, d, attachmentPath)
}
