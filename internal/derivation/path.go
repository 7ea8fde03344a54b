// Package derivation parses substrate-style derivation strings of the form
// //hard/soft///password into their constituent path and password, matching
// the grammar path := ( "/" "/"? segment )*, password := "///" any-non-empty.
package derivation

import (
	"errors"
	"regexp"
)

// ErrInvalidDerivation is returned when a derivation string does not match
// the anchored grammar.
var ErrInvalidDerivation = errors.New("derivation: invalid derivation string")

// pathRegex is the anchored form of sp_core's derivation regex. Go's
// regexp Find* functions search for a match anywhere in the input, so
// FindStringSubmatch on an unanchored pattern would accept a match starting
// mid-string; the explicit ^...$ here keeps the grammar total over the
// whole input.
var pathRegex = regexp.MustCompile(`^(?P<path>(//?[^/]+)*)(///(?P<password>.+))?$`)

var (
	pathIndex     = indexOf("path")
	passwordIndex = indexOf("password")
)

func indexOf(name string) int {
	for i, n := range pathRegex.SubexpNames() {
		if n == name {
			return i
		}
	}
	return -1
}

// Parsed is the decomposition of a derivation string.
type Parsed struct {
	Path        string
	Password    string
	HasPassword bool
}

// Parse validates s against the derivation grammar and splits it into path
// and optional password. An empty string is valid: empty path, no password.
func Parse(s string) (Parsed, error) {
	m := pathRegex.FindStringSubmatch(s)
	if m == nil {
		return Parsed{}, ErrInvalidDerivation
	}
	password := m[passwordIndex]
	return Parsed{
		Path:        m[pathIndex],
		Password:    password,
		HasPassword: password != "",
	}, nil
}

// CheckHasPassword reports whether s carries a (non-empty) password.
func CheckHasPassword(s string) (bool, error) {
	p, err := Parse(s)
	if err != nil {
		return false, err
	}
	return p.HasPassword, nil
}

// CropPassword returns the path portion of s with any password removed,
// the form persisted in AddressDetails.
func CropPassword(s string) (string, error) {
	p, err := Parse(s)
	if err != nil {
		return "", err
	}
	return p.Path, nil
}
