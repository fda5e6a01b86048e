// Package security validates untrusted input before it reaches an external command line.
package security

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// ValidateImageName checks an image identifier before it is passed as an
// argument to the atomic tool. The name is handed over as a single argv
// element, so the checks only guard against values the tool itself would
// misread: flags and embedded whitespace or control characters.
func ValidateImageName(name string) error {
	if strings.TrimSpace(name) == "" {
		slog.Error("security_image_name_rejected", "reason", "empty")
		return fmt.Errorf("security: image name cannot be empty")
	}

	// Reject names the tool would parse as an option
	if strings.HasPrefix(name, "-") {
		slog.Error("security_image_name_rejected", "image", name, "reason", "option_injection")
		return fmt.Errorf("security: image name must not start with '-': %s", name)
	}

	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			slog.Error("security_image_name_rejected", "image", name, "reason", "invalid_character")
			return fmt.Errorf("security: image name contains whitespace or control characters: %q", name)
		}
	}

	return nil
}
