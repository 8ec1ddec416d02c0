package hubspot

import "strconv"

// Filter operators supported by the search endpoint.
const (
	OpBetween = "BETWEEN"
	OpEq      = "EQ"
)

// Filter is a single property predicate. Filters within one FilterGroup
// combine with logical AND.
type Filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
	HighValue    string `json:"highValue,omitempty"`
}

// Between builds an inclusive epoch-millisecond range filter on property.
func Between(property string, startMs, endMs int64) Filter {
	return Filter{
		PropertyName: property,
		Operator:     OpBetween,
		Value:        strconv.FormatInt(startMs, 10),
		HighValue:    strconv.FormatInt(endMs, 10),
	}
}

// Eq builds an exact-match filter on property.
func Eq(property, value string) Filter {
	return Filter{
		PropertyName: property,
		Operator:     OpEq,
		Value:        value,
	}
}
