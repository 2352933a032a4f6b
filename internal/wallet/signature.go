package wallet

import (
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

var (
	ErrMalformedSignature = errors.New("signature must be 65 bytes of hex")
	ErrSignatureMismatch  = errors.New("signature does not match wallet address")
	ErrUnsupportedWallet  = errors.New("only EVM wallets can sign in")
)

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// PersonalMessageHash is the EIP-191 digest wallets sign for personal_sign.
func PersonalMessageHash(message string) []byte {
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message))
	return keccak256([]byte(prefix), []byte(message))
}

// PublicKeyAddress derives the lowercase EVM address of a public key.
func PublicKeyAddress(pub *secp256k1.PublicKey) string {
	raw := pub.SerializeUncompressed()
	return "0x" + hex.EncodeToString(keccak256(raw[1:])[12:])
}

// RecoverAddress returns the address that produced a personal_sign signature
// (r || s || v, v either 0/1 or 27/28) over message.
func RecoverAddress(message, signature string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(signature), "0x"), "0X"))
	if err != nil || len(sig) != 65 {
		return "", ErrMalformedSignature
	}

	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return "", ErrMalformedSignature
	}

	compact := make([]byte, 65)
	compact[0] = 27 + v
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, PersonalMessageHash(message))
	if err != nil {
		return "", ErrSignatureMismatch
	}
	return PublicKeyAddress(pub), nil
}

// VerifySignature checks that addr signed message. addr must already be
// normalized.
func VerifySignature(addr, message, signature string) error {
	if !IsEVM(addr) {
		return ErrUnsupportedWallet
	}
	signer, err := RecoverAddress(message, signature)
	if err != nil {
		return err
	}
	if signer != addr {
		return ErrSignatureMismatch
	}
	return nil
}

// IsEVM reports whether a normalized address is a 0x-prefixed EVM address.
func IsEVM(addr string) bool {
	return len(addr) == 42 && strings.HasPrefix(addr, "0x")
}
