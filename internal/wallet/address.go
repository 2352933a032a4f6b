// Package wallet normalizes player wallet addresses.
package wallet

import (
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

const maxAddressLength = 128

var (
	ErrEmptyAddress   = errors.New("wallet address is required")
	ErrInvalidAddress = errors.New("wallet address is malformed")
	ErrBadChecksum    = errors.New("wallet address checksum mismatch")
)

// Normalize validates addr and returns its canonical stored form. EVM
// addresses are lowercased after their EIP-55 checksum (if any) is verified;
// other address families are kept verbatim.
func Normalize(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", ErrEmptyAddress
	}
	if len(addr) > maxAddressLength || strings.IndexFunc(addr, unicode.IsSpace) >= 0 {
		return "", ErrInvalidAddress
	}

	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return addr, nil
	}

	body := addr[2:]
	if len(body) != 40 {
		return "", ErrInvalidAddress
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", ErrInvalidAddress
	}

	lower := strings.ToLower(body)
	if body != lower && body != strings.ToUpper(body) {
		if checksum(lower) != body {
			return "", ErrBadChecksum
		}
	}
	return "0x" + lower, nil
}

// checksum returns the EIP-55 mixed-case form of a lowercase hex address body.
func checksum(lower string) string {
	digest := hex.EncodeToString(keccak256([]byte(lower)))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 32
		}
	}
	return string(out)
}

// Checksummed returns the EIP-55 display form of an EVM address. Non-EVM
// addresses are returned unchanged.
func Checksummed(addr string) string {
	if !IsEVM(addr) {
		return addr
	}
	return "0x" + checksum(strings.ToLower(addr[2:]))
}

// DefaultUsername derives the initial username from the address prefix.
func DefaultUsername(addr string) string {
	body := addr
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		body = body[2:]
	}
	if len(body) > 6 {
		body = body[:6]
	}
	return "player_" + strings.ToLower(body)
}
