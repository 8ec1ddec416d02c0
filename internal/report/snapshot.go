package report

import (
	"encoding/json"
	"strings"

	"github.com/sells-group/report-cli/internal/classify"
	"github.com/sells-group/report-cli/pkg/hubspot"
)

// Snapshot is the flat output record of one run: aggregate counts plus the
// three rendered reports. It serializes to a single flat JSON object using
// the established downstream key set.
type Snapshot struct {
	RunID       string
	WindowStart int64
	WindowEnd   int64

	// Lead type buckets over the allocated-in-window set.
	NewLead           int
	DuplicateLead     int
	ResubmittedLead   int
	NurtureLead       int
	SelfGenLead       int
	OtherLead         int
	TotalLeadAllocate int

	// Lead source buckets over the created-in-window set, in configured
	// order, keyed by lowercased canonical name plus no_lead_source.
	SourceBuckets   []SourceCount
	OtherSource     int
	TotalLeadCreate int

	// Lifecycle stage sizes keyed by their flat snapshot keys.
	StageCounts map[string]int

	SalesDirectReport string
	CCTOReport        string
	LeadSourceReport  string
}

// assemble reduces the fetched sets and fan-out results into the snapshot.
func (b *Builder) assemble(
	runID string,
	leadsAllocate, leadsCreate []hubspot.Contact,
	stageCounts map[string]int,
	direct []DirectActivity,
	secondary []SecondaryActivity,
	sources []SourceGroupCount,
) *Snapshot {
	snap := &Snapshot{
		RunID:       runID,
		WindowStart: b.win.StartMillis(),
		WindowEnd:   b.win.EndMillis(),

		NewLead:           len(classify.ByLeadType(leadsAllocate, leadTypeNew)),
		DuplicateLead:     len(classify.ByLeadType(leadsAllocate, leadTypeDuplicate)),
		ResubmittedLead:   len(classify.ByLeadType(leadsAllocate, leadTypeResubmitted)),
		NurtureLead:       len(classify.ByLeadType(leadsAllocate, leadTypeNurture)),
		SelfGenLead:       len(classify.ByLeadType(leadsAllocate, leadTypeSelfGen)),
		TotalLeadAllocate: len(leadsAllocate),
		TotalLeadCreate:   len(leadsCreate),
		StageCounts:       stageCounts,

		SalesDirectReport: renderSalesDirect(direct),
		CCTOReport:        renderCCTO(secondary),
		LeadSourceReport:  renderLeadSources(sources),
	}

	// Residual of leads allocated outside the named type buckets. Can go
	// negative when a contact lands in more than one bucket; preserved
	// as-is for downstream reconciliation.
	named := snap.NewLead + snap.DuplicateLead + snap.ResubmittedLead + snap.NurtureLead + snap.SelfGenLead
	snap.OtherLead = snap.TotalLeadAllocate - named

	bucketed := 0
	for _, name := range b.input.LeadSources {
		n := len(classify.BySourceKeyword(leadsCreate, name))
		snap.SourceBuckets = append(snap.SourceBuckets, SourceCount{
			Name:  strings.ToLower(name),
			Count: n,
		})
		bucketed += n
	}
	blank := len(classify.ByBlankSource(leadsCreate))
	snap.SourceBuckets = append(snap.SourceBuckets, SourceCount{Name: "no_lead_source", Count: blank})
	snap.OtherSource = snap.TotalLeadCreate - bucketed - blank

	return snap
}

// MarshalJSON flattens the snapshot into the single-level record consumed
// downstream.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	flat := map[string]any{
		"run_id":       s.RunID,
		"window_start": s.WindowStart,
		"window_end":   s.WindowEnd,

		"new_lead":            s.NewLead,
		"duplicate_lead":      s.DuplicateLead,
		"resubmitted_lead":    s.ResubmittedLead,
		"nurture_lead":        s.NurtureLead,
		"self_gen_lead":       s.SelfGenLead,
		"other_lead":          s.OtherLead,
		"total_lead_allocate": s.TotalLeadAllocate,

		"other_source":      s.OtherSource,
		"total_lead_create": s.TotalLeadCreate,

		"CC TO Report":        s.CCTOReport,
		"Sales Direct Report": s.SalesDirectReport,
		"Lead Source Report":  s.LeadSourceReport,
	}
	for _, b := range s.SourceBuckets {
		flat[b.Name] = b.Count
	}
	for key, n := range s.StageCounts {
		flat[key] = n
	}
	return json.Marshal(flat)
}
