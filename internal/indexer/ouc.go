package indexer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// GetAuditors fetches all auditors synced from the OUC canister.
func (c *Client) GetAuditors(ctx context.Context) ([]model.Auditor, error) {
	var resp []model.Auditor
	if err := c.get(ctx, PathAuditors, nil, &resp); err != nil {
		return nil, fmt.Errorf("get auditors: %w", err)
	}
	return resp, nil
}

// GetAuditor fetches a single auditor by id.
func (c *Client) GetAuditor(ctx context.Context, auditorID string) (*model.Auditor, error) {
	var resp model.Auditor
	if err := c.get(ctx, PathAuditors+"/"+url.PathEscape(auditorID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get auditor %s: %w", auditorID, err)
	}
	return &resp, nil
}

// GetSubscription fetches the current subscription.
func (c *Client) GetSubscription(ctx context.Context) (*model.Subscription, error) {
	var resp *model.Subscription
	if err := c.get(ctx, PathSubscription, nil, &resp); err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return resp, nil
}

// GetTreasury fetches the treasury balances.
func (c *Client) GetTreasury(ctx context.Context) (*model.Treasury, error) {
	var resp *model.Treasury
	if err := c.get(ctx, PathTreasury, nil, &resp); err != nil {
		return nil, fmt.Errorf("get treasury: %w", err)
	}
	return resp, nil
}

// GetOUCStatus fetches the indexer's OUC sync status.
func (c *Client) GetOUCStatus(ctx context.Context) (*model.OUCStatus, error) {
	var resp *model.OUCStatus
	if err := c.get(ctx, PathOUCStatus, nil, &resp); err != nil {
		return nil, fmt.Errorf("get ouc status: %w", err)
	}
	return resp, nil
}
