package indexer

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// GetEvents fetches a page of events.
func (c *Client) GetEvents(ctx context.Context, opts GetEventsOptions) (*model.EventsPage, error) {
	query := url.Values{}

	if opts.Contract != "" {
		query.Set("contract", opts.Contract)
	}
	if opts.Topic != "" {
		query.Set("topic", opts.Topic)
	}
	if opts.Chain != "" {
		query.Set("chain", opts.Chain)
	}
	if opts.From != 0 {
		query.Set("from", strconv.FormatInt(opts.From, 10))
	}
	if opts.To != 0 {
		query.Set("to", strconv.FormatInt(opts.To, 10))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var resp model.EventsPage
	if err := c.get(ctx, PathEvents, query, &resp); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}

	return &resp, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	var resp model.Event
	if err := c.get(ctx, PathEvents+"/"+url.PathEscape(eventID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return &resp, nil
}

// GetStats fetches indexer statistics.
func (c *Client) GetStats(ctx context.Context) (*model.Stats, error) {
	var resp model.Stats
	if err := c.get(ctx, PathStats, nil, &resp); err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &resp, nil
}

// GetHealth fetches the indexer health status.
func (c *Client) GetHealth(ctx context.Context) (*model.Health, error) {
	var resp model.Health
	if err := c.get(ctx, PathHealth, nil, &resp); err != nil {
		return nil, fmt.Errorf("get health: %w", err)
	}
	return &resp, nil
}
