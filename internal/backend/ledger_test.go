package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rickgao/ouc-dashboard/internal/config"
)

// ledgerCall is a request seen by the fake ledger server.
type ledgerCall struct {
	Method   string
	Canister string
	Body     json.RawMessage
}

// fakeLedger is an in-process gRPC server answering with a JSON codec.
type fakeLedger struct {
	lis *bufconn.Listener

	mu    sync.Mutex
	calls []ledgerCall

	respond func(method string, body json.RawMessage) (any, error)
}

func startFakeLedger(t *testing.T, respond func(method string, body json.RawMessage) (any, error)) *fakeLedger {
	t.Helper()

	f := &fakeLedger{lis: bufconn.Listen(1 << 20), respond: respond}

	srv := grpc.NewServer(
		grpc.ForceServerCodec(jsonCodec{}),
		grpc.UnknownServiceHandler(func(_ any, stream grpc.ServerStream) error {
			method, _ := grpc.MethodFromServerStream(stream)

			var body json.RawMessage
			if err := stream.RecvMsg(&body); err != nil {
				return err
			}

			var canister string
			if md, ok := metadata.FromIncomingContext(stream.Context()); ok {
				if v := md.Get(CanisterHeader); len(v) > 0 {
					canister = v[0]
				}
			}

			f.mu.Lock()
			f.calls = append(f.calls, ledgerCall{Method: method, Canister: canister, Body: body})
			f.mu.Unlock()

			resp, err := f.respond(method, body)
			if err != nil {
				return err
			}
			return stream.SendMsg(resp)
		}),
	)

	go srv.Serve(f.lis)
	t.Cleanup(srv.Stop)

	return f
}

func (f *fakeLedger) options() Options {
	return Options{
		Host:        "http://bufnet",
		CanisterID:  "ouc-canister",
		Credentials: insecure.NewCredentials(),
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return f.lis.DialContext(ctx)
			}),
		},
		Logger: quietLogger(),
	}
}

func (f *fakeLedger) recorded() []ledgerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ledgerCall(nil), f.calls...)
}

func ledgerResponses(method string, body json.RawMessage) (any, error) {
	switch method {
	case MethodListAuditors:
		return map[string]any{"auditors": []map[string]any{{"id": "a1", "name": "Acme"}, {"id": "a2"}}}, nil
	case MethodGetSubscription:
		return map[string]any{"tier": "pro", "autoRenew": true}, nil
	case MethodGetTreasury:
		return map[string]any{"balances": []map[string]string{{"token": "ICP", "amount": "99"}}}, nil
	case MethodAuditorCount:
		return map[string]any{"count": 2}, nil
	case MethodProposalVoteCount:
		var req proposalRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return map[string]any{"count": req.ProposalID * 10}, nil
	}
	return nil, status.Error(codes.Unimplemented, method)
}

func TestLedger_Reads(t *testing.T) {
	fake := startFakeLedger(t, ledgerResponses)
	provider := NewMemoizedProvider(fake.options())
	defer provider.Close()

	ledger := NewLedger(provider, 5*time.Second, quietLogger())
	ctx := context.Background()

	auditors, err := ledger.ListAuditors(ctx, 0)
	if err != nil {
		t.Fatalf("ListAuditors failed: %v", err)
	}
	if len(auditors) != 2 || auditors[0].Name != "Acme" {
		t.Errorf("auditors = %+v", auditors)
	}

	sub, err := ledger.GetSubscription(ctx)
	if err != nil || sub.Tier != "pro" || !sub.AutoRenew {
		t.Errorf("GetSubscription = %+v, %v", sub, err)
	}

	treasury, err := ledger.GetTreasury(ctx)
	if err != nil || len(treasury.Balances) != 1 || treasury.Balances[0].Amount != "99" {
		t.Errorf("GetTreasury = %+v, %v", treasury, err)
	}

	count, err := ledger.AuditorCount(ctx)
	if err != nil || count != 2 {
		t.Errorf("AuditorCount = %d, %v", count, err)
	}

	votes, err := ledger.ProposalVoteCount(ctx, 7)
	if err != nil || votes != 70 {
		t.Errorf("ProposalVoteCount = %d, %v", votes, err)
	}

	calls := fake.recorded()
	if len(calls) != 5 {
		t.Fatalf("calls = %d, want 5", len(calls))
	}
	for _, c := range calls {
		if c.Canister != "ouc-canister" {
			t.Errorf("%s canister header = %q, want %q", c.Method, c.Canister, "ouc-canister")
		}
	}
	if string(calls[0].Body) != `{"limit":500}` {
		t.Errorf("ListAuditors body = %s, want default limit", calls[0].Body)
	}
}

func TestLedger_NullResults(t *testing.T) {
	fake := startFakeLedger(t, func(method string, body json.RawMessage) (any, error) {
		return json.RawMessage("null"), nil
	})
	provider := NewMemoizedProvider(fake.options())
	defer provider.Close()

	ledger := NewLedger(provider, 5*time.Second, quietLogger())
	ctx := context.Background()

	sub, err := ledger.GetSubscription(ctx)
	if err != nil || sub != nil {
		t.Errorf("GetSubscription = %+v, %v, want nil, nil", sub, err)
	}

	treasury, err := ledger.GetTreasury(ctx)
	if err != nil || treasury != nil {
		t.Errorf("GetTreasury = %+v, %v, want nil, nil", treasury, err)
	}
}

func TestLedger_EphemeralHandlesPerCall(t *testing.T) {
	fake := startFakeLedger(t, ledgerResponses)
	provider := NewProvider(config.EnvLocal, fake.options())

	ledger := NewLedger(provider, 5*time.Second, quietLogger())
	for i := 0; i < 3; i++ {
		if _, err := ledger.AuditorCount(context.Background()); err != nil {
			t.Fatalf("AuditorCount #%d failed: %v", i, err)
		}
	}

	if got := len(fake.recorded()); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestLedger_CallFailure(t *testing.T) {
	fake := startFakeLedger(t, func(method string, body json.RawMessage) (any, error) {
		return nil, status.Error(codes.Unavailable, "canister stopped")
	})
	provider := NewMemoizedProvider(fake.options())
	defer provider.Close()

	ledger := NewLedger(provider, 5*time.Second, quietLogger())

	_, err := ledger.GetTreasury(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if status.Code(errors.Unwrap(err)) != codes.Unavailable {
		t.Errorf("code = %v, want Unavailable (err: %v)", status.Code(errors.Unwrap(err)), err)
	}
}

func TestLedger_ProviderFailure(t *testing.T) {
	opts := Options{Logger: quietLogger()}
	ledger := NewLedger(NewEphemeralProvider(opts), 0, nil)

	if _, err := ledger.ListAuditors(context.Background(), 10); !errors.Is(err, ErrNoHost) {
		t.Errorf("error = %v, want ErrNoHost", err)
	}
}
