// Package identcore holds the error taxonomy shared by every component of
// the identity core. A single Kind-tagged error type stands in for the
// original two-environment (Active/Signer) error split: this module has one
// environment, so the algorithm never forks on it, but the Kind taxonomy and
// wrapping shape are kept so a second environment could be added later
// without touching the derivation/merge routines.
package identcore

import "fmt"

// Kind classifies the error without committing to a message format, so
// callers can switch on it (errors.As) independent of presentation.
type Kind int

const (
	KindInvalidDerivation Kind = iota
	KindSecretString
	KindEncryptionMismatch
	KindKeyCollision
	KindNotFound
	KindNotHex
	KindDbInternal
	KindQr
	KindRandomPhraseGeneration
)

func (k Kind) String() string {
	switch k {
	case KindInvalidDerivation:
		return "invalid_derivation"
	case KindSecretString:
		return "secret_string"
	case KindEncryptionMismatch:
		return "encryption_mismatch"
	case KindKeyCollision:
		return "key_collision"
	case KindNotFound:
		return "not_found"
	case KindNotHex:
		return "not_hex"
	case KindDbInternal:
		return "db_internal"
	case KindQr:
		return "qr"
	case KindRandomPhraseGeneration:
		return "random_phrase_generation"
	default:
		return "unknown"
	}
}

// Error is the unified error value surfaced by every top-level operation.
type Error struct {
	Kind Kind
	// Subject names the thing the error is about: a seed name, a field
	// name, an address key hex string, etc. Optional.
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		if e.Subject == "" {
			return e.Kind.String()
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
	}
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, identcore.Sentinel(kind)) style comparisons work by
// matching on Kind alone; the target's Subject and Err are ignored.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an Error with no wrapped cause.
func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Wrap builds an Error around an existing cause.
func Wrap(kind Kind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Sentinel returns a zero-subject, zero-cause Error of the given kind,
// convenient as an errors.Is target: errors.Is(err, identcore.Sentinel(identcore.KindNotFound)).
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}
