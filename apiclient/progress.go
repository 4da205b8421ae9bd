package apiclient

import (
	"context"

	"github.com/jrsteele09/go-questpath-client/model"
)

func (c *Client) Leaderboard(ctx context.Context) (*model.Leaderboard, error) {
	var lb model.Leaderboard
	if err := c.Get(ctx, "/leaderboard", &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}

func (c *Client) ProgressionStats(ctx context.Context) (*model.ProgressionStats, error) {
	var stats model.ProgressionStats
	if err := c.Get(ctx, "/progression/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.Get(ctx, "/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
