// apps/go-server/internal/ranking/ranking.go
//
// Leaderboard types shared by the local store, the remote backends and the service.
// Ordering everywhere is: fastest time first, earlier submission first on ties.

package ranking

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultMaxDisplay is how many local entries are kept per stage.
	DefaultMaxDisplay = 5
	// DefaultRemoteLimit is the window in which a remote rank is reported.
	DefaultRemoteLimit = 10
	// NicknameMaxLength is counted in runes.
	NicknameMaxLength = 10
)

var (
	ErrInvalidNickname = errors.New("ranking: invalid nickname")
	ErrInvalidTime     = errors.New("ranking: invalid time")
	ErrNotConfigured   = errors.New("ranking: remote not configured")
)

// Entry is one leaderboard record.
type Entry struct {
	ID        string    `json:"id"`
	Stage     int       `json:"stage"`
	Nickname  string    `json:"nickname"`
	TimeMs    int64     `json:"time"`
	CreatedAt time.Time `json:"date"`
}

// ValidateNickname trims s and checks it holds 1..NicknameMaxLength runes.
func ValidateNickname(s string) (string, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidNickname)
	}
	if n > NicknameMaxLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidNickname, NicknameMaxLength)
	}
	return s, nil
}

// rankOf is the 1-based position of id within entries, or 0 when absent or beyond limit.
func rankOf(entries []Entry, id string, limit int) int {
	for i, e := range entries {
		if e.ID == id {
			if i < limit {
				return i + 1
			}
			return 0
		}
	}
	return 0
}
