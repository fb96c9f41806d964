package provisioner

import "context"

// ServerRequest carries the resource limits derived from the purchased
// package. CPU is in cores; the panel wants a percentage (cores * 100).
type ServerRequest struct {
	Name     string
	UserID   int
	MemoryMB int
	DiskMB   int
	CPUCores int
}

// Provisioner creates panel accounts and servers. Both calls are
// terminal on failure: the order flow never retries them.
type Provisioner interface {
	CreateUser(ctx context.Context, username, email, password string) (int, error)
	CreateServer(ctx context.Context, req ServerRequest) (int, error)
}
