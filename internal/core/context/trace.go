package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext carries per-request correlation IDs plus the company the
// request analyzes, so every downstream log line can be tied back to one
// company's ledger read.
type TraceContext struct {
	TraceID   string
	RequestID string
	Company   string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetTraceID returns trace ID from context or generates new one.
func GetTraceID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	return uuid.New().String()
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// WithTraceCompany records the company a request operates on. The existing
// trace is copied, not mutated, so sibling contexts stay untouched.
func WithTraceCompany(ctx context.Context, company string) context.Context {
	t := GetTrace(ctx)
	if t == nil {
		return WithTrace(ctx, &TraceContext{Company: company})
	}
	clone := *t
	clone.Company = company
	return WithTrace(ctx, &clone)
}

// GetTraceCompany returns the company recorded on the trace, or "".
func GetTraceCompany(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.Company
	}
	return ""
}
