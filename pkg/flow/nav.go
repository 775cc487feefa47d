package flow

import (
	"sort"
	"strings"
)

// NavTable maps element identifiers (node icon references or ids) to the
// page locations a click should navigate to.
type NavTable map[string]string

// DefaultNav covers the standard process stages of the hosted page.
func DefaultNav() NavTable {
	return NavTable{
		"collection":   "#collection",
		"sorting":      "#sorting",
		"incineration": "#energy",
		"energy":       "#energy",
		"recycling":    "#recycling",
		"residue":      "#materials",
		"materials":    "#materials",
		"landfill":     "#impact",
		"emissions":    "#impact",
	}
}

// Resolve looks up the navigation target for an identifier. Exact matches
// win; otherwise the first key (in sorted order) contained in the identifier
// is used, so "waste-collection-truck" still reaches "collection". Returns
// "" when nothing matches.
func (t NavTable) Resolve(id string) string {
	if href, ok := t[id]; ok {
		return href
	}

	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lower := strings.ToLower(id)
	for _, k := range keys {
		if strings.Contains(lower, k) {
			return t[k]
		}
	}
	return ""
}
