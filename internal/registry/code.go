package registry

import (
	"crypto/rand"
	"math/big"
)

const (
	CodeLength = 4
	// CodeAlphabet leaves out I, O, 0 and 1.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func GenerateCode() (string, error) {
	n := big.NewInt(int64(len(CodeAlphabet)))
	code := make([]byte, CodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		code[i] = CodeAlphabet[num.Int64()]
	}
	return string(code), nil
}
