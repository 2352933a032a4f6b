// Package cache holds the best-effort leaderboard page cache. The database
// stays authoritative; every cache failure degrades to a miss.
package cache

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
)

// Page is one cached leaderboard page.
type Page struct {
	Entries []models.LeaderboardEntry `json:"entries"`
	Total   int64                     `json:"total"`
}

// LeaderboardCache stores leaderboard pages until the next Invalidate.
//
// GetPage reports the cache generation it looked at, hit or miss. A page
// built after a miss is handed back to SetPage with that generation, so a
// page computed across an Invalidate is never served as current.
type LeaderboardCache interface {
	GetPage(ctx context.Context, limit, offset int) (*Page, int64, bool)
	SetPage(ctx context.Context, generation int64, limit, offset int, page *Page)
	Invalidate(ctx context.Context)
	Ping(ctx context.Context) error
}

// Noop is used when no cache backend is configured.
type Noop struct{}

func (Noop) GetPage(context.Context, int, int) (*Page, int64, bool) { return nil, 0, false }
func (Noop) SetPage(context.Context, int64, int, int, *Page)        {}
func (Noop) Invalidate(context.Context)                             {}
func (Noop) Ping(context.Context) error                             { return nil }
