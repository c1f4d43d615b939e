package service

import (
	"crypto/rand"
	"encoding/binary"

	"codebox/internal/utils"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// HOTPGenerator produces numeric one-time codes from a fresh random secret and
// counter on every call, so successive codes are unrelated.
type HOTPGenerator struct {
	Digits    otp.Digits
	Algorithm otp.Algorithm
}

func NewHOTPGenerator() *HOTPGenerator {
	return &HOTPGenerator{
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (g *HOTPGenerator) Generate() (string, error) {
	secret, err := utils.GenerateBase32Secret(20)
	if err != nil {
		return "", err
	}
	var counter [8]byte
	if _, err := rand.Read(counter[:]); err != nil {
		return "", err
	}
	return hotp.GenerateCodeCustom(secret, binary.BigEndian.Uint64(counter[:]), hotp.ValidateOpts{
		Digits:    g.digits(),
		Algorithm: g.algorithm(),
	})
}

func (g *HOTPGenerator) digits() otp.Digits {
	if g.Digits == 0 {
		return otp.DigitsSix
	}
	return g.Digits
}

func (g *HOTPGenerator) algorithm() otp.Algorithm {
	if g.Algorithm == 0 {
		return otp.AlgorithmSHA1
	}
	return g.Algorithm
}
