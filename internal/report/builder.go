// Package report orchestrates the daily sales activity snapshot: window
// fetches, classification, the per-owner and per-source count fan-out, and
// rendering of the three text reports.
package report

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/report-cli/internal/classify"
	"github.com/sells-group/report-cli/internal/config"
	"github.com/sells-group/report-cli/internal/window"
	"github.com/sells-group/report-cli/pkg/hubspot"
)

// DirectActivity holds the stage counts attributed to one direct owner.
type DirectActivity struct {
	ID              string
	Name            string
	ZoomBook        int
	Attend          int
	DealNegotiation int
}

// SecondaryActivity holds the takeover and stage counts attributed to one
// secondary (CC) owner.
type SecondaryActivity struct {
	ID              string
	Name            string
	TOCall          int
	TOText          int
	ZoomBook        int
	Attend          int
	DealNegotiation int
}

// SourceCount is one concrete lead-source string and its created-in-window
// count.
type SourceCount struct {
	Name  string
	Count int
}

// SourceGroupCount is a canonical source bucket: the sum of its sub-source
// counts plus the per-sub breakdown.
type SourceGroupCount struct {
	Name  string
	Total int
	Subs  []SourceCount
}

// Builder assembles one snapshot per Run call. Every remote query re-enters
// the client independently; nothing is cached between calls.
type Builder struct {
	client      hubspot.Client
	input       *config.Input
	win         window.Window
	concurrency int
}

// New creates a report builder. concurrency bounds the count fan-out; 1
// runs it fully sequentially.
func New(client hubspot.Client, in *config.Input, win window.Window, concurrency int) *Builder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Builder{client: client, input: in, win: win, concurrency: concurrency}
}

// Run executes the full pipeline and returns the snapshot. Any fetch or
// count failure aborts the run; there is no partial output.
func (b *Builder) Run(ctx context.Context) (*Snapshot, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))

	log.Info("report window computed",
		zap.Time("start", b.win.Start),
		zap.Time("end", b.win.End),
	)

	leadProps := []string{hubspot.PropEmail, hubspot.PropLeadType, hubspot.PropLeadSource}

	leadsAllocate, err := b.client.SearchAll(ctx, b.between(propNewLeadDate), leadProps)
	if err != nil {
		return nil, err
	}
	leadsCreate, err := b.client.SearchAll(ctx, b.between(propCreateDate), leadProps)
	if err != nil {
		return nil, err
	}
	observed, err := b.client.SearchAll(ctx, b.between(propCreateDate), []string{hubspot.PropLeadSource})
	if err != nil {
		return nil, err
	}

	log.Info("lead fetches complete",
		zap.Int("allocated", len(leadsAllocate)),
		zap.Int("created", len(leadsCreate)),
	)

	stageGroups, stageCounts, err := b.fetchStages(ctx)
	if err != nil {
		return nil, err
	}

	directOwners := classify.DirectOwners(stageGroups, b.input.CCSet())
	secondaryOwners := classify.SecondaryOwners(stageGroups)
	sourceGroups := classify.GroupSources(classify.DistinctSources(observed), b.input.LeadSources)

	log.Info("owners with activity",
		zap.Int("direct", len(directOwners)),
		zap.Int("secondary", len(secondaryOwners)),
	)

	direct := make([]DirectActivity, len(directOwners))
	secondary := make([]SecondaryActivity, len(secondaryOwners))
	sources := make([]SourceGroupCount, len(sourceGroups))
	for i, sg := range sourceGroups {
		sources[i] = SourceGroupCount{Name: sg.Name, Subs: make([]SourceCount, len(sg.Subs))}
	}

	// Independent read-only count queries; bounded concurrency, results
	// written by index so rendered order follows owner/source iteration
	// order, never completion order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, id := range directOwners {
		g.Go(func() error {
			a, err := b.directActivity(gctx, id)
			if err != nil {
				return err
			}
			direct[i] = a
			return nil
		})
	}
	for i, id := range secondaryOwners {
		g.Go(func() error {
			a, err := b.secondaryActivity(gctx, id)
			if err != nil {
				return err
			}
			secondary[i] = a
			return nil
		})
	}
	for gi, sg := range sourceGroups {
		for si, sub := range sg.Subs {
			g.Go(func() error {
				n, err := b.client.Count(gctx, append(b.between(propCreateDate), hubspot.Eq(hubspot.PropLeadSource, sub)))
				if err != nil {
					return err
				}
				sources[gi].Subs[si] = SourceCount{Name: sub, Count: n}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range sources {
		total := 0
		for _, sub := range sources[i].Subs {
			total += sub.Count
		}
		sources[i].Total = total
	}

	snap := b.assemble(runID, leadsAllocate, leadsCreate, stageCounts, direct, secondary, sources)

	log.Info("report assembled",
		zap.Int("total_lead_allocate", snap.TotalLeadAllocate),
		zap.Int("total_lead_create", snap.TotalLeadCreate),
	)

	return snap, nil
}

// between wraps a date property in the run's reporting window.
func (b *Builder) between(property string) []hubspot.Filter {
	return []hubspot.Filter{hubspot.Between(property, b.win.StartMillis(), b.win.EndMillis())}
}

// fetchStages pulls the six lifecycle-stage groups in their fixed order and
// returns the groups plus the flat key→size counts.
func (b *Builder) fetchStages(ctx context.Context) ([][]hubspot.Contact, map[string]int, error) {
	ownerProps := []string{hubspot.PropSecondaryOwner, hubspot.PropOwnerID}

	stages := []struct {
		key     string
		filters []hubspot.Filter
	}{
		{keyContact, b.between(propContactDate)},
		{keyTakeoverCall, append(b.between(propTakeoverDate), hubspot.Eq(propTakeoverType, takeoverCall))},
		{keyTakeoverText, append(b.between(propTakeoverDate), hubspot.Eq(propTakeoverType, takeoverText))},
		{keyZoomBook, b.between(propZoomBookedDate)},
		{keyZoomAttend, b.between(propZoomAttendedDate)},
		{keyDealNego, b.between(propDealNegotiationDate)},
	}

	groups := make([][]hubspot.Contact, len(stages))
	counts := make(map[string]int, len(stages))
	for i, stage := range stages {
		contacts, err := b.client.SearchAll(ctx, stage.filters, ownerProps)
		if err != nil {
			return nil, nil, err
		}
		groups[i] = contacts
		counts[stage.key] = len(contacts)
	}
	return groups, counts, nil
}

// directActivity issues the three stage counts for one direct owner.
func (b *Builder) directActivity(ctx context.Context, ownerID string) (DirectActivity, error) {
	a := DirectActivity{ID: ownerID, Name: b.displayName(ownerID)}

	var err error
	if a.ZoomBook, err = b.ownerCount(ctx, propZoomBookedDate, ownerID); err != nil {
		return a, err
	}
	if a.Attend, err = b.ownerCount(ctx, propZoomAttendedDate, ownerID); err != nil {
		return a, err
	}
	if a.DealNegotiation, err = b.ownerCount(ctx, propDealNegotiationDate, ownerID); err != nil {
		return a, err
	}
	return a, nil
}

// secondaryActivity issues the five counts for one secondary owner.
func (b *Builder) secondaryActivity(ctx context.Context, ownerID string) (SecondaryActivity, error) {
	a := SecondaryActivity{ID: ownerID, Name: b.displayName(ownerID)}

	var err error
	if a.TOCall, err = b.secondaryCount(ctx, propTakeoverDate, ownerID, takeoverCall); err != nil {
		return a, err
	}
	if a.TOText, err = b.secondaryCount(ctx, propTakeoverDate, ownerID, takeoverText); err != nil {
		return a, err
	}
	if a.ZoomBook, err = b.secondaryCount(ctx, propZoomBookedDate, ownerID, ""); err != nil {
		return a, err
	}
	if a.Attend, err = b.secondaryCount(ctx, propZoomAttendedDate, ownerID, ""); err != nil {
		return a, err
	}
	if a.DealNegotiation, err = b.secondaryCount(ctx, propDealNegotiationDate, ownerID, ""); err != nil {
		return a, err
	}
	return a, nil
}

func (b *Builder) ownerCount(ctx context.Context, dateProperty, ownerID string) (int, error) {
	filters := append(b.between(dateProperty), hubspot.Eq(hubspot.PropOwnerID, ownerID))
	return b.client.Count(ctx, filters)
}

func (b *Builder) secondaryCount(ctx context.Context, dateProperty, ownerID, takeoverType string) (int, error) {
	filters := append(b.between(dateProperty), hubspot.Eq(hubspot.PropSecondaryOwner, ownerID))
	if takeoverType != "" {
		filters = append(filters, hubspot.Eq(propTakeoverType, takeoverType))
	}
	return b.client.Count(ctx, filters)
}

// displayName resolves an owner ID through the sales-team mapping, falling
// back to the raw identifier.
func (b *Builder) displayName(ownerID string) string {
	if name, ok := b.input.SalesTeam[ownerID]; ok {
		return name
	}
	return ownerID
}
