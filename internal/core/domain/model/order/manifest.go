package order

import (
	"fmt"
	"regexp"
	"strings"

	"ordertracking/internal/pkg/errs"
)

var (
	manifestPattern = regexp.MustCompile(`^(\d{4})\s*-\s*(\d{8})$`)
	idPattern       = regexp.MustCompile(`^\d{8}$`)
)

// IDFromManifest extracts the canonical order identifier from a carrier manifest
// field of the form "PPPP-NNNNNNNN". Whitespace around the separator and the
// whole value is ignored. The canonical identifier is the 8-digit suffix.
//
// Example:
//
//	id, err := order.IDFromManifest("0001 - 00287573") // "00287573"
func IDFromManifest(manifest string) (string, error) {
	match := manifestPattern.FindStringSubmatch(strings.TrimSpace(manifest))
	if match == nil {
		return "", errs.NewValueIsInvalidErrorWithCause(
			"manifest",
			fmt.Errorf("%q does not match PPPP-NNNNNNNN", manifest),
		)
	}
	return match[2], nil
}

// ValidateID checks the canonical 8-digit identifier format.
func ValidateID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	if !idPattern.MatchString(id) {
		return errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("%q is not 8 digits", id))
	}
	return nil
}

// ParseReference accepts either a canonical identifier or a full manifest and
// returns the canonical identifier.
func ParseReference(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	err := ValidateID(id)
	if err == nil {
		return id, nil
	}
	if fromManifest, manifestErr := IDFromManifest(raw); manifestErr == nil {
		return fromManifest, nil
	}
	return "", err
}
