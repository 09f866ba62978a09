// Package roster converts pasted army-list text into validated unit records
// and guards later changes to their painting state and progress.
package roster

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// CommandComposition holds the upgrade counts attached to a non-character
// unit. Characters always carry an all-zero composition.
type CommandComposition struct {
	Champion     int
	Musician     int
	BannerBearer int
}

// DraftEntry is an unvalidated candidate record, either produced by
// ParseList or assembled from manual form input. ProgressCount and State
// are only meaningful on the manual path; the parser leaves them zero.
type DraftEntry struct {
	Category      string
	Name          string
	ModelCount    int
	ProgressCount int
	State         string
	Details       string
	Command       CommandComposition
}

// DefaultManualCommand returns the command composition assumed for manually
// entered units: one of each upgrade present.
func DefaultManualCommand() CommandComposition {
	return CommandComposition{Champion: 1, Musician: 1, BannerBearer: 1}
}

// DefaultParsedCommand returns the command composition for freshly parsed
// entries: nothing present until a detail line says otherwise.
func DefaultParsedCommand() CommandComposition {
	return CommandComposition{}
}

var idPattern = regexp.MustCompile(`^unit-[0-9a-f]{8}$`)

// GenerateID creates a unique unit ID in unit-xxxxxxxx format (8-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("roster: generate ID: %w", err)
	}
	return "unit-" + hex.EncodeToString(b), nil
}

// ValidID reports whether id is a well-formed unit ID.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
