// Package constants holds the fixed configuration surface named in
// SPEC_FULL §6: tree names and the word-guess display cap.
package constants

const (
	// ADDRTREE is the bbolt bucket holding AddressKey -> AddressDetails.
	ADDRTREE = "addrtree"
	// SPECSTREE is the bbolt bucket holding NetworkSpecsKey -> NetworkSpecs.
	SPECSTREE = "specstree"

	// MAX_WORDS_DISPLAY bounds how many BIP-39 words guess() returns.
	MAX_WORDS_DISPLAY = 8
)
