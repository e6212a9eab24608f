package randcode

import (
	"crypto/rand"
	"math/big"
)

var digits = []rune("0123456789")

// GenerateNumericCode returns a string of length independently and uniformly
// sampled decimal digits.
func GenerateNumericCode(length int) (string, error) {
	b := make([]rune, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}

		b[i] = digits[n.Int64()]
	}

	return string(b), nil
}
