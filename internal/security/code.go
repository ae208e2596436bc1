package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeSource mints the 6-digit handoff codes that gate pickup and return.
// It is an interface so the state machine can be tested with a fixed
// sequence instead of a live RNG.
type CodeSource interface {
	SixDigitCode() (string, error)
}

// CryptoCodeSource draws codes uniformly from 000000-999999 using
// crypto/rand. With a 10^6 space the two codes of an approval are distinct
// with overwhelming probability; guess rate limiting is the API layer's
// concern, not this package's.
type CryptoCodeSource struct{}

func NewCryptoCodeSource() CryptoCodeSource {
	return CryptoCodeSource{}
}

func (CryptoCodeSource) SixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to draw handoff code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
