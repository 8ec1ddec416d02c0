package hubspot

import (
	"encoding/json"
	"fmt"
)

// Contact property names consulted by the report layer.
const (
	PropEmail          = "email"
	PropLeadType       = "lead_type"
	PropLeadSource     = "lead_source"
	PropOwnerID        = "hubspot_owner_id"
	PropSecondaryOwner = "secondary_owner"
)

// Contact is a CRM contact record returned by the search endpoint.
// Immutable once fetched.
type Contact struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
}

// Properties holds the contact properties requested in a search. The
// properties the report consults have explicit fields; anything else lands
// in Extra and is reachable through Get. Null property values decode as "".
type Properties struct {
	Email          string
	LeadType       string
	LeadSource     string
	OwnerID        string
	SecondaryOwner string
	Extra          map[string]string
}

// Get returns the named property value, or "" if absent.
func (p Properties) Get(name string) string {
	switch name {
	case PropEmail:
		return p.Email
	case PropLeadType:
		return p.LeadType
	case PropLeadSource:
		return p.LeadSource
	case PropOwnerID:
		return p.OwnerID
	case PropSecondaryOwner:
		return p.SecondaryOwner
	default:
		return p.Extra[name]
	}
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for name, val := range raw {
		s := ""
		if val != nil {
			if str, ok := val.(string); ok {
				s = str
			} else {
				s = fmt.Sprint(val)
			}
		}
		switch name {
		case PropEmail:
			p.Email = s
		case PropLeadType:
			p.LeadType = s
		case PropLeadSource:
			p.LeadSource = s
		case PropOwnerID:
			p.OwnerID = s
		case PropSecondaryOwner:
			p.SecondaryOwner = s
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]string)
			}
			p.Extra[name] = s
		}
	}
	return nil
}

// SearchRequest is the body for POST /crm/v3/objects/contacts/search.
type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties"`
	Limit        int           `json:"limit"`
	After        string        `json:"after,omitempty"`
}

// FilterGroup combines filters with logical AND.
type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results []Contact `json:"results"`
	Paging  *Paging   `json:"paging,omitempty"`
}

// Paging carries the cursor for the next page, when one exists.
type Paging struct {
	Next *PagingNext `json:"next,omitempty"`
}

// PagingNext holds the opaque pagination cursor.
type PagingNext struct {
	After string `json:"after"`
}

// nextAfter returns the next-page cursor, or "" when this is the last page.
func (r *SearchResponse) nextAfter() string {
	if r.Paging == nil || r.Paging.Next == nil {
		return ""
	}
	return r.Paging.Next.After
}
