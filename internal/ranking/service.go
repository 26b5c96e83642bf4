// apps/go-server/internal/ranking/service.go
//
// Service combines the always-written local leaderboard with an optional remote one.
//
// Fallback rules:
//   - Submit writes locally first. Without a remote, or when the remote insert
//     fails, the local rank is returned with IsLocal=true.
//   - After a successful remote insert the rank is the entry's position within the
//     remote top RemoteLimit; a failed rank lookup yields no rank but IsLocal=false.
//   - Fetch and Count read the remote and fall back to local on any error.

package ranking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of a submission. Rank is 1-based; 0 means unranked.
type Result struct {
	Entry   Entry `json:"entry"`
	Rank    int   `json:"rank,omitempty"`
	IsLocal bool  `json:"isLocal"`
	Err     error `json:"-"`
}

// Listing is a leaderboard page.
type Listing struct {
	Entries []Entry `json:"entries"`
	IsLocal bool    `json:"isLocal"`
	Err     error   `json:"-"`
}

// Service is safe for concurrent use as long as its stores are.
type Service struct {
	local       *Local
	remote      Remote
	remoteLimit int
}

// NewService wires a local store and an optional remote (nil = local only).
func NewService(local *Local, remote Remote, remoteLimit int) *Service {
	if remoteLimit <= 0 {
		remoteLimit = DefaultRemoteLimit
	}
	return &Service{local: local, remote: remote, remoteLimit: remoteLimit}
}

// Local exposes the local store for best-time bookkeeping.
func (s *Service) Local() *Local { return s.local }

// HasRemote reports whether a remote backend is configured.
func (s *Service) HasRemote() bool { return s.remote != nil }

// Submit validates and records a clear time.
func (s *Service) Submit(ctx context.Context, stage int, nickname string, timeMs int64) (Result, error) {
	nick, err := ValidateNickname(nickname)
	if err != nil {
		return Result{}, err
	}
	if timeMs < 0 {
		return Result{}, fmt.Errorf("%w: negative", ErrInvalidTime)
	}

	entry, localRank, err := s.local.Add(ctx, Entry{Stage: stage, Nickname: nick, TimeMs: timeMs})
	if err != nil {
		return Result{}, err
	}
	if s.remote == nil {
		return Result{Entry: entry, Rank: localRank, IsLocal: true}, nil
	}

	if err := s.remote.Insert(ctx, entry); err != nil {
		log.Warn().Err(err).Int("stage", stage).Msg("remote ranking insert failed; using local rank")
		return Result{Entry: entry, Rank: localRank, IsLocal: true, Err: err}, nil
	}

	res := Result{Entry: entry}
	top, err := s.remote.Top(ctx, stage, s.remoteLimit)
	if err != nil {
		log.Warn().Err(err).Int("stage", stage).Msg("remote rank lookup failed")
		res.Err = err
		return res, nil
	}
	res.Rank = rankOf(top, entry.ID, s.remoteLimit)
	return res, nil
}

// Fetch returns the leaderboard of a stage. limit <= 0 selects the remote window.
func (s *Service) Fetch(ctx context.Context, stage, limit int) (Listing, error) {
	if limit <= 0 {
		limit = s.remoteLimit
	}
	if s.remote != nil {
		entries, err := s.remote.Top(ctx, stage, limit)
		if err == nil {
			if entries == nil {
				entries = []Entry{}
			}
			return Listing{Entries: entries}, nil
		}
		log.Warn().Err(err).Int("stage", stage).Msg("remote ranking fetch failed; using local")
		l, lerr := s.localListing(ctx, stage)
		l.Err = err
		return l, lerr
	}
	return s.localListing(ctx, stage)
}

func (s *Service) localListing(ctx context.Context, stage int) (Listing, error) {
	entries, err := s.local.Top(ctx, stage, 0)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Entries: entries, IsLocal: true}, nil
}

// Count is the total number of entries of a stage.
func (s *Service) Count(ctx context.Context, stage int) (int, error) {
	if s.remote != nil {
		n, err := s.remote.Count(ctx, stage)
		if err == nil {
			return n, nil
		}
		log.Warn().Err(err).Int("stage", stage).Msg("remote ranking count failed; using local")
	}
	return s.local.Count(ctx, stage)
}

// Close releases the remote backend.
func (s *Service) Close() error {
	if s.remote == nil {
		return nil
	}
	return s.remote.Close()
}
