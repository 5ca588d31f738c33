package format

import "github.com/spiffcs/scout/internal/model"

// Icon strings for display (renderers can apply their own styling)
const (
	// AcceptingIcon marks repositories actively accepting contributions.
	AcceptingIcon = "\u2705" // ✅

	// LimitedIcon marks repositories with limited scope.
	// Using U+26A0 + U+FE0F to force emoji presentation for consistent 2-column width.
	LimitedIcon = "\u26A0\uFE0F" // ⚠️

	// NotAcceptingIcon marks repositories not accepting contributions.
	NotAcceptingIcon = "\u274C" // ❌

	// ArchivedIcon marks archived or inactive repositories.
	ArchivedIcon = "\U0001F5C4\uFE0F" // 🗄️

	// DegradedIcon marks records built from partial data.
	DegradedIcon = "\u2753" // ❓

	// IconWidth is the display width reserved for the icon column (emoji=2 + space=1).
	IconWidth = 3
)

// StatusIcon returns the icon for a contribution status.
func StatusIcon(s model.ContributionStatus) string {
	switch s {
	case model.StatusActivelyAccepting:
		return AcceptingIcon
	case model.StatusLimitedScope:
		return LimitedIcon
	case model.StatusNotAccepting:
		return NotAcceptingIcon
	case model.StatusArchivedInactive:
		return ArchivedIcon
	default:
		return DegradedIcon
	}
}
