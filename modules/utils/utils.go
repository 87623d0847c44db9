package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

// SecureRandomInt returns a uniform integer in [min, max].
func SecureRandomInt(min, max int) int {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return min
	}

	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		panic(err)
	}
	return min + int(nBig.Int64())
}

// Jitter returns a random duration in [0, max].
func Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(SecureRandomInt(0, int(max)))
}
