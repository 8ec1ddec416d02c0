package config

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Input is the resolved per-run report input: credential, team sets and the
// ordered canonical lead-source names.
type Input struct {
	APIKey      string
	CCTeam      []string
	SalesTeam   map[string]string
	LeadSources []string
}

// rawInput is the opaque payload shape handed to the job by its caller. The
// team values arrive either as JSON-encoded strings (the legacy trigger
// passes every value as a string) or as plain JSON structures.
type rawInput struct {
	HubSpotAPIKey  string          `json:"hubspot_api_key"`
	CCTeam         json.RawMessage `json:"cc_team"`
	SalesTeam      json.RawMessage `json:"sales_team"`
	MainLeadSource json.RawMessage `json:"main_lead_source"`
}

// ParseInput decodes the opaque input payload. Malformed JSON surfaces the
// decoder error verbatim; no further validation is applied.
func ParseInput(data []byte) (*Input, error) {
	var raw rawInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	in := &Input{APIKey: raw.HubSpotAPIKey}

	if len(raw.CCTeam) > 0 {
		cc, err := parseIDSet(raw.CCTeam)
		if err != nil {
			return nil, err
		}
		in.CCTeam = cc
	}

	if len(raw.SalesTeam) > 0 {
		if err := unmarshalNested(raw.SalesTeam, &in.SalesTeam); err != nil {
			return nil, err
		}
	}

	if len(raw.MainLeadSource) > 0 {
		var sources []string
		if err := unmarshalNested(raw.MainLeadSource, &sources); err != nil {
			return nil, err
		}
		in.LeadSources = TrimSources(sources)
	}

	return in, nil
}

// FromConfig builds the run input from the operator configuration.
func FromConfig(cfg *Config) *Input {
	return &Input{
		APIKey:      cfg.HubSpot.Token,
		CCTeam:      cfg.Team.CC,
		SalesTeam:   cfg.Team.Sales,
		LeadSources: TrimSources(cfg.Team.LeadSources),
	}
}

// CCSet returns the CC-team identifiers as a membership set.
func (in *Input) CCSet() map[string]struct{} {
	set := make(map[string]struct{}, len(in.CCTeam))
	for _, id := range in.CCTeam {
		set[id] = struct{}{}
	}
	return set
}

// TrimSources whitespace-trims each canonical source name, preserving order.
func TrimSources(sources []string) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

// parseIDSet accepts either a JSON array of identifiers or an object whose
// keys are the identifiers.
func parseIDSet(data json.RawMessage) ([]string, error) {
	var ids []string
	if err := unmarshalNested(data, &ids); err == nil {
		return ids, nil
	}
	var byID map[string]string
	if err := unmarshalNested(data, &byID); err != nil {
		return nil, err
	}
	ids = make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	return ids, nil
}

// unmarshalNested decodes data into v, unwrapping one level of string
// encoding first if data is a JSON string.
func unmarshalNested(data json.RawMessage, v any) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		data = []byte(inner)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrap(err, "config: parse input value")
	}
	return nil
}
