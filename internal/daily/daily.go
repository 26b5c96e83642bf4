// apps/go-server/internal/daily/daily.go
//
// Stage of the day.
// Every client sees the same stage on a given UTC date: the pick is
// HMAC-SHA256(salt, YYYY-MM-DD) reduced modulo the catalogue size. Changing the
// salt reshuffles the schedule without touching the catalogue.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// StageIndex returns a deterministic index in [0, n) for the date of t.
func StageIndex(t time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
