package types

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type ContextKey string

const (
	CtxRunID   ContextKey = "ctx_run_id"
	CtxAccount ContextKey = "ctx_account"
)

// GenerateRunID returns a sortable id that tags every log line and report
// row of one process run.
func GenerateRunID() string {
	return "run_" + strings.ToLower(ulid.Make().String())
}

func SetRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, CtxRunID, runID)
}

func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRunID).(string); ok {
		return id
	}
	return ""
}

func SetAccount(ctx context.Context, role AccountRole) context.Context {
	return context.WithValue(ctx, CtxAccount, role)
}

func GetAccount(ctx context.Context) AccountRole {
	if role, ok := ctx.Value(CtxAccount).(AccountRole); ok {
		return role
	}
	return ""
}

// NowFunc is swapped in tests.
var NowFunc = func() time.Time {
	return time.Now().UTC()
}
