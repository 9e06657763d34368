package backend

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rickgao/ouc-dashboard/internal/config"
)

// Errors
var (
	ErrNoHost         = errors.New("backend host not configured")
	ErrInvalidHost    = errors.New("invalid backend host")
	ErrProviderClosed = errors.New("connection provider closed")
)

// ConnectionProvider hands out handles to the ledger backend.
type ConnectionProvider interface {
	// Handle returns a handle ready for calls.
	Handle(ctx context.Context) (*Handle, error)

	// Release returns a handle obtained from Handle.
	Release(h *Handle)

	// Close releases every handle the provider still owns.
	Close() error
}

// Options configures a ConnectionProvider.
type Options struct {
	Host       string // Backend URL (e.g., http://127.0.0.1:4943)
	CanisterID string

	// Bootstrap fetches the root key for local handles. Nil skips the step.
	Bootstrap TrustBootstrapper

	// Credentials overrides the environment's transport credentials.
	Credentials credentials.TransportCredentials

	// DialOptions are appended to every dial.
	DialOptions []grpc.DialOption

	Logger *slog.Logger
}

// NewProvider selects the caching strategy for env. Local environments get a
// fresh, trust-bootstrapped handle per call; production memoizes one handle.
func NewProvider(env config.Environment, opts Options) ConnectionProvider {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Credentials == nil {
		if env.IsLocal() {
			opts.Credentials = insecure.NewCredentials()
		} else {
			opts.Credentials = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
		}
	}

	if env.IsLocal() {
		return NewEphemeralProvider(opts)
	}
	return NewMemoizedProvider(opts)
}

// dial builds a new handle. grpc.NewClient connects lazily, so this does no I/O.
func dial(opts Options) (*Handle, error) {
	target, err := grpcTarget(opts.Host)
	if err != nil {
		return nil, err
	}

	creds := opts.Credentials
	if creds == nil {
		creds = insecure.NewCredentials()
	}

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts.DialOptions...)
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial backend %s: %w", opts.Host, err)
	}

	return &Handle{
		ID:         uuid.New(),
		Host:       opts.Host,
		CanisterID: opts.CanisterID,
		CreatedAt:  time.Now(),
		conn:       conn,
	}, nil
}

// -----------------------------------------------------------------------------
// Ephemeral (local replica)
// -----------------------------------------------------------------------------

// EphemeralProvider builds a new handle on every call.
type EphemeralProvider struct {
	opts   Options
	logger *slog.Logger
}

// NewEphemeralProvider creates an EphemeralProvider.
func NewEphemeralProvider(opts Options) *EphemeralProvider {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EphemeralProvider{opts: opts, logger: logger}
}

// Handle dials a fresh handle and bootstraps trust. A bootstrap failure is
// logged and the handle is returned anyway; later calls may fail on their own.
func (p *EphemeralProvider) Handle(ctx context.Context) (*Handle, error) {
	h, err := dial(p.opts)
	if err != nil {
		return nil, err
	}

	if p.opts.Bootstrap != nil {
		key, err := p.opts.Bootstrap.FetchRootKey(ctx, p.opts.Host)
		if err != nil {
			p.logger.Warn("unable to fetch root key, is the local replica running?",
				"host", p.opts.Host,
				"err", err,
			)
		} else {
			h.RootKey = key
		}
	}

	p.logger.Debug("created ephemeral backend handle", "handle", h.ID, "host", h.Host)
	return h, nil
}

// Release closes the handle.
func (p *EphemeralProvider) Release(h *Handle) {
	if h == nil {
		return
	}
	if err := h.Close(); err != nil {
		p.logger.Debug("close ephemeral handle", "handle", h.ID, "err", err)
	}
}

// Close is a no-op; ephemeral handles are closed on release.
func (p *EphemeralProvider) Close() error {
	return nil
}

// -----------------------------------------------------------------------------
// Memoized (production)
// -----------------------------------------------------------------------------

// MemoizedProvider builds one handle and returns it for the provider's lifetime.
type MemoizedProvider struct {
	opts   Options
	logger *slog.Logger

	group singleflight.Group

	mu     sync.Mutex
	handle *Handle
	closed bool
}

// NewMemoizedProvider creates a MemoizedProvider.
func NewMemoizedProvider(opts Options) *MemoizedProvider {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoizedProvider{opts: opts, logger: logger}
}

// Handle returns the memoized handle, dialing it on first use. Concurrent
// first calls share one dial. A failed dial is not cached.
func (p *MemoizedProvider) Handle(ctx context.Context) (*Handle, error) {
	if h, err := p.cached(); h != nil || err != nil {
		return h, err
	}

	v, err, _ := p.group.Do("handle", func() (any, error) {
		if h, err := p.cached(); h != nil || err != nil {
			return h, err
		}

		h, err := dial(p.opts)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			h.Close()
			return nil, ErrProviderClosed
		}
		p.handle = h

		p.logger.Info("created backend handle", "handle", h.ID, "host", h.Host)
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

func (p *MemoizedProvider) cached() (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrProviderClosed
	}
	return p.handle, nil
}

// Release is a no-op; the memoized handle outlives individual calls.
func (p *MemoizedProvider) Release(*Handle) {}

// Close closes the memoized handle. Later Handle calls fail.
func (p *MemoizedProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.handle == nil {
		return nil
	}
	err := p.handle.Close()
	p.handle = nil
	return err
}
