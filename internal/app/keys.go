package app

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// KeyLength is the number of characters in a game key. 36^6 keys put the
// birthday bound for a 50% collision chance at roughly 55k games; the service
// retries on collision instead of relying on that.
const KeyLength = 6

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// KeyGenerator produces candidate public keys for new games.
type KeyGenerator func() (string, error)

// GenerateKey returns a random upper-case alphanumeric key of KeyLength characters.
func GenerateKey() (string, error) {
	return randomKey(KeyLength)
}

func randomKey(n int) (string, error) {
	max := big.NewInt(int64(len(keyAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate key: %w", err)
		}
		b.WriteByte(keyAlphabet[idx.Int64()])
	}
	return b.String(), nil
}

// NormalizeKey makes player-typed keys match stored keys.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
