package api

import (
	"context"

	"github.com/karthikkarki2001-ops/bolt64/internal/auth"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) *auth.Identity {
	v := ctx.Value(ctxKeyIdentity)
	if v == nil {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}
