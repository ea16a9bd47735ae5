package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP returns a 6-digit numeric one-time code.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand never fails on supported platforms
		panic("otp: " + err.Error())
	}
	return fmt.Sprintf("%06d", n.Int64())
}
