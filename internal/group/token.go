package group

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugLength = 40

// NewRegistrationToken builds the stable token used in a group's join link,
// e.g. "lagos-family-savings-3f9a1c2e".
func NewRegistrationToken(name string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	s := slug.Make(name)
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		return "group-" + suffix
	}
	return s + "-" + suffix
}
