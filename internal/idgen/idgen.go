// Package idgen generates the legacy product identifier format: two
// uppercase letters followed by five digits.
package idgen

import "math/rand/v2"

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

// New returns a fresh random product id. Ids are drawn independently from a
// 26^2 * 10^5 space with no collision check against ids generated in the
// same run; the bulk insert's duplicate skipping absorbs the rare clash.
func New() string {
	var b [7]byte
	for i := 0; i < 2; i++ {
		b[i] = letters[rand.IntN(len(letters))]
	}
	for i := 2; i < 7; i++ {
		b[i] = digits[rand.IntN(len(digits))]
	}
	return string(b[:])
}
