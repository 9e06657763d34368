package backend

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/metadata"
)

// CanisterHeader carries the target canister id on every call.
const CanisterHeader = "x-canister-id"

// Handle is a connection to the ledger backend for one canister.
// Handles are owned by a ConnectionProvider; callers release them after use.
type Handle struct {
	ID         uuid.UUID
	Host       string
	CanisterID string
	RootKey    []byte // Set by the trust bootstrap (local replica only)
	CreatedAt  time.Time

	conn *grpc.ClientConn
}

// Invoke performs a unary call against the handle's canister.
func (h *Handle) Invoke(ctx context.Context, method string, req, resp any) error {
	ctx = metadata.AppendToOutgoingContext(ctx, CanisterHeader, h.CanisterID)
	return h.conn.Invoke(ctx, method, req, resp, grpc.ForceCodec(jsonCodec{}))
}

// State returns the underlying connection state.
func (h *Handle) State() connectivity.State {
	return h.conn.GetState()
}

// Close releases the underlying connection.
func (h *Handle) Close() error {
	return h.conn.Close()
}

// grpcTarget converts a backend host URL into a passthrough gRPC target,
// filling in the scheme's default port.
func grpcTarget(host string) (string, error) {
	if host == "" {
		return "", ErrNoHost
	}

	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		// Bare host:port.
		if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
			return "", fmt.Errorf("parse backend host %q: %w", host, ErrInvalidHost)
		}
		return "passthrough:///" + host, nil
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		default:
			return "", fmt.Errorf("parse backend host %q: %w", host, ErrInvalidHost)
		}
	}

	return "passthrough:///" + net.JoinHostPort(u.Hostname(), port), nil
}
