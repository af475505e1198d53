package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeLength = 6

var codeSpace = big.NewInt(1_000_000)

// NumericCodeGenerator draws 6-digit codes uniformly from [0, 999999] using
// the operating system CSPRNG. Leading zeroes are preserved by padding.
type NumericCodeGenerator struct{}

func (NumericCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (NumericCodeGenerator) ValidFormat(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
