package cli

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/daemon/server"
)

const (
	minRPCTimeout = 45 * time.Second
	rpcHeadroom   = 15 * time.Second
)

// rpcTimeout bounds CLI calls. A capture can wait out the whole backend
// timeout before the daemon appends locally, so the deadline follows it.
func rpcTimeout(backendTimeout time.Duration) time.Duration {
	if t := backendTimeout + rpcHeadroom; t > minRPCTimeout {
		return t
	}
	return minRPCTimeout
}

// connectDaemon establishes a gRPC connection to the running daemon.
func connectDaemon() (*grpc.ClientConn, error) {
	info, err := config.LoadDaemonInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("daemon not running")
	}

	addr := fmt.Sprintf("%s:%d", info.Host, info.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	return conn, nil
}

// withDaemon starts the daemon if needed and calls fn with a client.
func withDaemon(fn func(ctx context.Context, c *server.CommandsClient) error) error {
	if err := EnsureDaemon(); err != nil {
		return err
	}
	conn, err := connectDaemon()
	if err != nil {
		return err
	}
	defer conn.Close()

	timeout := minRPCTimeout
	if settings, err := config.LoadSettings(); err == nil {
		timeout = rpcTimeout(settings.Backend.Timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, server.NewCommandsClient(conn))
}
