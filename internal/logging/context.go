package logging

import "context"

type contextKey struct{}

// WithLogData attaches logData to ctx for retrieval deeper in the call chain.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, contextKey{}, logData)
}

// GetLogData returns the request's LogData, or nil when the call did not come
// through LoggingWrapper.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(contextKey{}).(*LogData)
	return logData
}
