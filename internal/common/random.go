package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// GenerateNumericCode returns a uniformly random decimal code with exactly
// digits digits and no leading zero, e.g. [100000, 999999] for digits=6.
func GenerateNumericCode(digits int) (string, error) {
	if digits < 1 || digits > 18 {
		return "", fmt.Errorf("unsupported code length %d", digits)
	}

	high := int64(1)
	for i := 0; i < digits; i++ {
		high *= 10
	}

	low := high / 10
	if digits == 1 {
		low = 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(high-low))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(low+n.Int64(), 10), nil
}
