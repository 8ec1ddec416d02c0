package report

import (
	"fmt"
	"strings"
)

// renderSalesDirect formats one paragraph per direct owner, in first-seen
// owner order.
func renderSalesDirect(owners []DirectActivity) string {
	paragraphs := make([]string, 0, len(owners))
	for _, o := range owners {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"%s\n Zoom Book: %d\n Attend: %d\n Deal Negotiation: %d\n",
			o.Name, o.ZoomBook, o.Attend, o.DealNegotiation,
		))
	}
	return strings.Join(paragraphs, "\n")
}

// renderCCTO formats one paragraph per secondary owner with the two
// takeover counts ahead of the stage counts.
func renderCCTO(owners []SecondaryActivity) string {
	paragraphs := make([]string, 0, len(owners))
	for _, o := range owners {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"%s\n TO Call: %d\n TO Text: %d\n Zoom Book: %d\n Attend: %d\n Deal Negotiation: %d\n",
			o.Name, o.TOCall, o.TOText, o.ZoomBook, o.Attend, o.DealNegotiation,
		))
	}
	return strings.Join(paragraphs, "\n")
}

// renderLeadSources formats a header per canonical bucket followed by its
// sub-source lines and a blank separator. Buckets with no sub-sources are
// omitted entirely.
func renderLeadSources(groups []SourceGroupCount) string {
	var lines []string
	for _, g := range groups {
		if len(g.Subs) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", g.Name, g.Total))
		for _, sub := range g.Subs {
			lines = append(lines, fmt.Sprintf("%s: %d", sub.Name, sub.Count))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
