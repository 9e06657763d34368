package indexer

import (
	"context"
	"fmt"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// ChangeTier requests a subscription tier change. The indexer forwards the
// request to the OUC canister. Unlike reads, failures are returned as-is so
// the caller learns that the change did not happen.
func (c *Client) ChangeTier(ctx context.Context, tier string) (*model.Subscription, error) {
	var resp model.Subscription
	if err := c.post(ctx, PathTier, tierRequest{Tier: tier}, &resp); err != nil {
		c.logger.Error("tier change failed", "tier", tier, "err", err)
		return nil, fmt.Errorf("change tier to %s: %w", tier, err)
	}
	return &resp, nil
}

// SetAutoRenew toggles subscription auto-renewal.
func (c *Client) SetAutoRenew(ctx context.Context, enabled bool) (*model.Subscription, error) {
	var resp model.Subscription
	if err := c.post(ctx, PathAutoRenew, autoRenewRequest{AutoRenew: enabled}, &resp); err != nil {
		c.logger.Error("auto-renew toggle failed", "enabled", enabled, "err", err)
		return nil, fmt.Errorf("set auto-renew %t: %w", enabled, err)
	}
	return &resp, nil
}
