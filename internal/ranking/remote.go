package ranking

import (
	"context"
	"fmt"
	"strings"
)

// Remote is a shared leaderboard reachable over the network.
// Every call may fail; the Service falls back to the local store.
type Remote interface {
	Insert(ctx context.Context, e Entry) error
	Top(ctx context.Context, stage, limit int) ([]Entry, error)
	Count(ctx context.Context, stage int) (int, error)
	Close() error
}

// OpenRemote selects a backend from the URL scheme.
// An empty URL yields (nil, nil): local only.
func OpenRemote(ctx context.Context, url string) (Remote, error) {
	switch {
	case url == "":
		return nil, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		r, err := OpenPostgres(ctx, url)
		if err != nil {
			return nil, err
		}
		return r, nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		r, err := OpenRedis(ctx, url)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("ranking: unsupported remote url scheme in %q", url)
	}
}
