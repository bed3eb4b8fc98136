// Package ordertoken renders internal order identifiers as short display
// tokens. The transform is one-way: tokens are for presentation only and are
// never used as lookup keys (truncation can collide for very large ids).
package ordertoken

import (
	"fmt"
	"math/big"
	"strings"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const tokenLength = 8

var base = big.NewInt(int64(len(alphabet)))

// Encode converts a hexadecimal identifier into an uppercase display token of
// at most eight characters: parse base-16, re-encode base-62, truncate,
// uppercase.
func Encode(hexID string) (string, error) {
	trimmed := strings.TrimSpace(hexID)
	if trimmed == "" {
		return "", fmt.Errorf("empty order id")
	}

	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok || value.Sign() < 0 {
		return "", fmt.Errorf("order id %q is not hexadecimal", hexID)
	}

	encoded := encodeBase62(value)
	if len(encoded) > tokenLength {
		encoded = encoded[:tokenLength]
	}
	return strings.ToUpper(encoded), nil
}

func encodeBase62(value *big.Int) string {
	if value.Sign() == 0 {
		return string(alphabet[0])
	}

	var digits []byte
	n := new(big.Int).Set(value)
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, alphabet[mod.Int64()])
	}

	// digits were produced least-significant first
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
