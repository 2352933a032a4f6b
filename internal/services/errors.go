package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service matches exactly one of
// these with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPersistence  = errors.New("persistence error")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string        { return e.msg }
func (e *domainError) Is(target error) bool { return target == e.kind }

// Retryable reports false: repeating a rejected request yields the same answer.
func (e *domainError) Retryable() bool { return false }

func newError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

var (
	ErrInvalidUsername       = newError(ErrValidation, "username must be 3-20 characters: letters, digits or underscore")
	ErrInappropriateUsername = newError(ErrValidation, "username contains inappropriate language")
	ErrUsernameHasURL        = newError(ErrValidation, "username must not contain links")
	ErrUsernameSpam          = newError(ErrValidation, "username looks like spam")
	ErrSignInUnsupported     = newError(ErrValidation, "only EVM wallets can sign in")
	ErrMalformedSignature    = newError(ErrValidation, "signature must be 65 bytes of hex")
	ErrInvalidPoints         = newError(ErrValidation, "points must be a non-negative integer")
	ErrInvalidAction         = newError(ErrValidation, "action must be one of feed, play, clean")
	ErrMissingReferralCode   = newError(ErrValidation, "referral code is required")

	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrReferralCodeNotFound = newError(ErrNotFound, "invalid referral code")

	ErrUsernameTaken   = newError(ErrConflict, "username already taken")
	ErrSelfReferral    = newError(ErrConflict, "cannot use your own referral code")
	ErrAlreadyReferred = newError(ErrConflict, "user has already been referred")
	ErrReferrerAtCap   = newError(ErrConflict, "referrer has reached the maximum number of referrals")
	ErrPetDead         = newError(ErrConflict, "pet is dead")
	ErrUIDTaken        = newError(ErrConflict, "uid is already linked to another wallet")

	ErrNoChallenge  = newError(ErrUnauthorized, "no active sign-in challenge; request a new one")
	ErrBadSignature = newError(ErrUnauthorized, "signature does not match wallet")
)

func invalidWallet(err error) error {
	return newError(ErrValidation, err.Error())
}

// storeError passes domain errors through and tags everything else as a
// persistence failure.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domainError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
