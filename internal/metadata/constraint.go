package metadata

import "fmt"

// ParentAppConstraint builds the trader filter string constraining listings
// to a parent application. With an explicit parentApp the filter requires an
// exact match. Without one, the filter admits entries with no parent (or an
// empty one) as well as entries matching currentApp; an empty currentApp
// yields an empty constraint. The syntax is consumed by the query layer and
// must be preserved verbatim.
func ParentAppConstraint(parentApp, currentApp string) string {
	if parentApp == "" {
		if currentApp == "" {
			return ""
		}
		return fmt.Sprintf("((not exist [X-KDE-ParentApp] or [X-KDE-ParentApp] == '') or [X-KDE-ParentApp] == '%s')", currentApp)
	}

	return fmt.Sprintf("[X-KDE-ParentApp] == '%s'", parentApp)
}

// MatchesParentApp reports whether the record satisfies the constraint
// expression ParentAppConstraint builds for the same arguments.
func MatchesParentApp(r Record, parentApp, currentApp string) bool {
	if parentApp == "" {
		if currentApp == "" {
			return true
		}
		return r.ParentApp == "" || r.ParentApp == currentApp
	}
	return r.ParentApp == parentApp
}
