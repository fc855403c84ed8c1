// Package daily derives one shared secret per UTC date and keeps the
// per-player results for it.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed is HMAC-SHA256(salt, YYYY-MM-DD) folded to 64 bits. Never zero.
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	n := binary.BigEndian.Uint64(h.Sum(nil)[:8])
	if n == 0 {
		n = 1
	}
	return n
}

// Secret is the code everyone breaks on the given date.
func Secret(date time.Time, salt string, rules game.Rules) game.Code {
	return rules.RandomCode(game.NewRand(Seed(date, salt)))
}
