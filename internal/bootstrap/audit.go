package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events that must survive even when the
// HTTP layer is already draining.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
