// Package classify partitions fetched contacts into report buckets. All
// functions are pure: they never mutate their inputs and return filtered
// sub-sequences or ordered distinct values.
package classify

import (
	"strings"

	"github.com/sells-group/report-cli/pkg/hubspot"
)

// ByLeadType returns the contacts whose lead_type matches exactly.
func ByLeadType(contacts []hubspot.Contact, leadType string) []hubspot.Contact {
	var out []hubspot.Contact
	for _, c := range contacts {
		if c.Properties.LeadType == leadType {
			out = append(out, c)
		}
	}
	return out
}

// BySourceKeyword returns the contacts whose lead_source contains keyword,
// case-insensitively. Contacts with an empty lead_source never match.
func BySourceKeyword(contacts []hubspot.Contact, keyword string) []hubspot.Contact {
	kw := strings.ToLower(keyword)
	var out []hubspot.Contact
	for _, c := range contacts {
		src := c.Properties.LeadSource
		if src != "" && strings.Contains(strings.ToLower(src), kw) {
			out = append(out, c)
		}
	}
	return out
}

// ByBlankSource returns the contacts with a missing or empty lead_source.
func ByBlankSource(contacts []hubspot.Contact) []hubspot.Contact {
	var out []hubspot.Contact
	for _, c := range contacts {
		if c.Properties.LeadSource == "" {
			out = append(out, c)
		}
	}
	return out
}

// DirectOwners collects the distinct hubspot_owner_id values across the
// stage groups, excluding CC-team members, in first-seen order.
func DirectOwners(groups [][]hubspot.Contact, ccTeam map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, c := range group {
			id := c.Properties.OwnerID
			if id == "" {
				continue
			}
			if _, cc := ccTeam[id]; cc {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// SecondaryOwners collects the distinct secondary_owner values across the
// stage groups, in first-seen order. CC-team membership is not consulted:
// secondary attribution applies to everyone.
func SecondaryOwners(groups [][]hubspot.Contact) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, c := range group {
			id := c.Properties.SecondaryOwner
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// DistinctSources returns the distinct non-empty lead_source values in
// first-seen order.
func DistinctSources(contacts []hubspot.Contact) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range contacts {
		src := c.Properties.LeadSource
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
