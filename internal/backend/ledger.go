package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// Service is the fully-qualified gRPC service of the OUC canister gateway.
const Service = "ouc.v1.OUC"

// Method names.
const (
	MethodListAuditors      = "/" + Service + "/ListAuditors"
	MethodGetSubscription   = "/" + Service + "/GetSubscription"
	MethodGetTreasury       = "/" + Service + "/GetTreasury"
	MethodAuditorCount      = "/" + Service + "/AuditorCount"
	MethodProposalVoteCount = "/" + Service + "/ProposalVoteCount"
)

// DefaultAuditorLimit bounds ListAuditors when the caller passes 0.
const DefaultAuditorLimit = 500

type listAuditorsRequest struct {
	Limit int `json:"limit"`
}

type listAuditorsResponse struct {
	Auditors []model.Auditor `json:"auditors"`
}

type proposalRequest struct {
	ProposalID uint64 `json:"proposal_id"`
}

type countResponse struct {
	Count uint64 `json:"count"`
}

type empty struct{}

// Ledger reads from the OUC canister through a ConnectionProvider. Each call
// obtains a handle, performs one unary call and releases the handle.
type Ledger struct {
	provider ConnectionProvider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewLedger creates a Ledger. A zero timeout leaves deadlines to the caller.
func NewLedger(provider ConnectionProvider, timeout time.Duration, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// ListAuditors returns up to limit registered auditors.
func (l *Ledger) ListAuditors(ctx context.Context, limit int) ([]model.Auditor, error) {
	if limit <= 0 {
		limit = DefaultAuditorLimit
	}
	var resp listAuditorsResponse
	if err := l.call(ctx, MethodListAuditors, listAuditorsRequest{Limit: limit}, &resp); err != nil {
		return nil, fmt.Errorf("list auditors: %w", err)
	}
	return resp.Auditors, nil
}

// GetSubscription returns the subscription info.
func (l *Ledger) GetSubscription(ctx context.Context) (*model.Subscription, error) {
	var resp *model.Subscription
	if err := l.call(ctx, MethodGetSubscription, empty{}, &resp); err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return resp, nil
}

// GetTreasury returns the treasury balances.
func (l *Ledger) GetTreasury(ctx context.Context) (*model.Treasury, error) {
	var resp *model.Treasury
	if err := l.call(ctx, MethodGetTreasury, empty{}, &resp); err != nil {
		return nil, fmt.Errorf("get treasury: %w", err)
	}
	return resp, nil
}

// AuditorCount returns the number of registered auditors.
func (l *Ledger) AuditorCount(ctx context.Context) (uint64, error) {
	var resp countResponse
	if err := l.call(ctx, MethodAuditorCount, empty{}, &resp); err != nil {
		return 0, fmt.Errorf("auditor count: %w", err)
	}
	return resp.Count, nil
}

// ProposalVoteCount returns the number of votes cast on a proposal.
func (l *Ledger) ProposalVoteCount(ctx context.Context, proposalID uint64) (uint64, error) {
	var resp countResponse
	if err := l.call(ctx, MethodProposalVoteCount, proposalRequest{ProposalID: proposalID}, &resp); err != nil {
		return 0, fmt.Errorf("proposal %d vote count: %w", proposalID, err)
	}
	return resp.Count, nil
}

func (l *Ledger) call(ctx context.Context, method string, req, resp any) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	h, err := l.provider.Handle(ctx)
	if err != nil {
		l.logger.Warn("backend handle unavailable", "method", method, "err", err)
		return err
	}
	defer l.provider.Release(h)

	if err := h.Invoke(ctx, method, req, resp); err != nil {
		l.logger.Warn("backend call failed", "method", method, "handle", h.ID, "err", err)
		return err
	}
	return nil
}
