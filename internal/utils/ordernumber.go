package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber builds a human-readable order number of the form
// VP<6 timestamp digits><4 random digits>. The random suffix comes from
// crypto/rand so two orders created in the same millisecond do not collide
// on the counter alone.
func GenerateOrderNumber() string {
	now := time.Now().UTC()

	ts := now.UnixMilli() % 1000000

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("VP%06d%04d", ts, n.Int64())
}
