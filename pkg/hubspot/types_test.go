package hubspot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties_Unmarshal(t *testing.T) {
	raw := `{
		"email": "a@x.com",
		"lead_type": "New Lead",
		"lead_source": "Facebook Ads",
		"hubspot_owner_id": "101",
		"secondary_owner": "202",
		"takeover_type": "TO Call",
		"hs_object_id": null
	}`

	var p Properties
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "a@x.com", p.Email)
	assert.Equal(t, "New Lead", p.LeadType)
	assert.Equal(t, "Facebook Ads", p.LeadSource)
	assert.Equal(t, "101", p.OwnerID)
	assert.Equal(t, "202", p.SecondaryOwner)
	assert.Equal(t, "TO Call", p.Extra["takeover_type"])
	assert.Equal(t, "", p.Extra["hs_object_id"])
}

func TestProperties_Get(t *testing.T) {
	p := Properties{
		LeadSource: "Google",
		OwnerID:    "7",
		Extra:      map[string]string{"takeover_type": "TO Text"},
	}

	assert.Equal(t, "Google", p.Get(PropLeadSource))
	assert.Equal(t, "7", p.Get(PropOwnerID))
	assert.Equal(t, "TO Text", p.Get("takeover_type"))
	assert.Equal(t, "", p.Get("missing_property"))
}

func TestFilters(t *testing.T) {
	f := Between("createdate", 1700000000000, 1700086399999)
	assert.Equal(t, "createdate", f.PropertyName)
	assert.Equal(t, OpBetween, f.Operator)
	assert.Equal(t, "1700000000000", f.Value)
	assert.Equal(t, "1700086399999", f.HighValue)

	e := Eq("takeover_type", "TO Call")
	assert.Equal(t, OpEq, e.Operator)
	assert.Equal(t, "TO Call", e.Value)
	assert.Empty(t, e.HighValue)
}

func TestFilter_MarshalOmitsEmptyHighValue(t *testing.T) {
	data, err := json.Marshal(Eq("lead_source", "Facebook"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "highValue")
}

func TestSearchResponse_NextAfter(t *testing.T) {
	var r SearchResponse
	assert.Equal(t, "", r.nextAfter())

	r.Paging = &Paging{}
	assert.Equal(t, "", r.nextAfter())

	r.Paging.Next = &PagingNext{After: "abc"}
	assert.Equal(t, "abc", r.nextAfter())
}
