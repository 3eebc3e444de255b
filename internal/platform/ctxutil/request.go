package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries the authenticated caller and the correlation id for a
// single request. Attached by middleware, read by services and the audit
// writer.
type RequestData struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, _ := ctx.Value(requestDataKey{}).(*RequestData)
	return rd
}

// ActorID returns the acting user's id, or uuid.Nil for unauthenticated
// contexts (seeding, background jobs).
func ActorID(ctx context.Context) uuid.UUID {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

func RequestID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.RequestID
	}
	return ""
}
