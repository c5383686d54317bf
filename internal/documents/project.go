package documents

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/types"
)

// Planning assumptions
const (
	// defaultAreaM2 is used when neither the text nor the catalog gives an area
	defaultAreaM2 = 100
	// executionRateM2PerDay is the area a standard crew completes per day
	executionRateM2PerDay = 5.0
	// complexExecutionMultiplier stretches execution for the complex tier
	complexExecutionMultiplier = 1.5
	// extraFloorFactor adds execution time for each floor above the first
	extraFloorFactor = 0.15
	// stakeholderPhaseDays is the length of the complex-tier stakeholder phase
	stakeholderPhaseDays = 3
	// crewAreaM2 is the area covered by one field technician
	crewAreaM2 = 100.0
)

type phaseDurations struct {
	initiation, commissioning, closure int
	engineering                        [3]int // area < 100, < 300, otherwise
}

var (
	simpleDurations  = phaseDurations{initiation: 5, commissioning: 5, closure: 3, engineering: [3]int{7, 10, 15}}
	complexDurations = phaseDurations{initiation: 10, commissioning: 8, closure: 5, engineering: [3]int{12, 18, 25}}
)

// Project builds a phased plan. The total duration is the sum of phase durations and the
// budget is the total of the companion quotation for the same inputs.
func (b *Builder) Project(category types.ServiceCategory, tier types.Tier, entities types.ExtractedEntities, dc Context) types.ProjectDocument {
	svc := b.service(category)
	areaM2 := area(svc, entities)
	phases := buildPhases(svc, tier, areaM2, floors(entities))

	total := 0
	for _, p := range phases {
		total += p.DurationDays
	}

	budget := b.estimatedCost(category, tier, entities, dc)

	start := dc.StartDate
	if start.IsZero() {
		start = dc.IssueDate
	}
	var end time.Time
	if !start.IsZero() {
		end = start.AddDate(0, 0, total)
	}

	project := types.ProjectDocument{
		Code:              documentCode("PRY", svc, dc),
		Name:              projectName(svc, entities, dc),
		Service:           category,
		ServiceName:       svc.Name,
		Tier:              tier,
		Client:            clientName(entities, dc),
		Description:       dc.Description,
		Scope:             scope(svc, areaM2, floors(entities)),
		StartDate:         formatDate(start),
		EndDate:           formatDate(end),
		TotalDurationDays: total,
		EstimatedBudget:   budget,
		Currency:          b.cat.Currency(),
		Phases:            phases,
		Resources:         resources(tier, areaM2),
		Risks:             risks(tier),
		Deliverables:      deliverables(tier),
		Standards:         svc.Standards,
		Entities:          entities,
		PendingQuestions:  pendingQuestions(svc, entities, dc),
	}
	if tier.IsComplex() {
		project.Schedule = schedule(phases, start)
	}
	return project
}

// estimatedCost returns the caller's estimate or the companion quotation total
func (b *Builder) estimatedCost(category types.ServiceCategory, tier types.Tier, entities types.ExtractedEntities, dc Context) float64 {
	if dc.EstimatedCost != nil {
		return catalog.RoundCents(*dc.EstimatedCost)
	}
	return b.Quotation(category, tier, entities, Context{}).Total
}

func buildPhases(svc catalog.Service, tier types.Tier, areaM2 float64, floorCount int) []types.Phase {
	d := simpleDurations
	if tier.IsComplex() {
		d = complexDurations
	}

	engineering := d.engineering[2]
	switch {
	case areaM2 < 100:
		engineering = d.engineering[0]
	case areaM2 < 300:
		engineering = d.engineering[1]
	}

	phases := []types.Phase{
		{
			Name:         "Initiation",
			DurationDays: d.initiation,
			Activities:   []string{"Kickoff meeting", "Site survey", "Scope confirmation"},
			Deliverable:  "Project charter",
		},
		{
			Name:         "Engineering",
			DurationDays: engineering,
			Activities:   []string{"Load and sizing calculations", "Drawings and specifications", "Permit review"},
			Deliverable:  "Issued-for-construction drawings",
		},
		{
			Name:         "Execution",
			DurationDays: executionPhaseDays(svc, tier, areaM2, floorCount),
			Activities:   []string{"Material procurement", "Installation works", "Quality inspections"},
			Deliverable:  "Installed system",
		},
		{
			Name:         "Testing and Commissioning",
			DurationDays: d.commissioning,
			Activities:   []string{"Functional tests", "Measurements and protocols", "Owner training"},
			Deliverable:  "Test protocols",
		},
		{
			Name:         "Closure",
			DurationDays: d.closure,
			Activities:   []string{"As-built documentation", "Handover", "Final acceptance"},
			Deliverable:  "Acceptance certificate",
		},
	}

	if tier.IsComplex() {
		stakeholders := types.Phase{
			Name:         "Stakeholder Management",
			DurationDays: stakeholderPhaseDays,
			Activities:   []string{"Stakeholder mapping", "Communication plan", "Approval matrix"},
			Deliverable:  "Stakeholder register",
		}
		phases = slices.Insert(phases, 1, stakeholders)
	}
	return phases
}

func executionPhaseDays(svc catalog.Service, tier types.Tier, areaM2 float64, floorCount int) int {
	days := areaM2 / executionRateM2PerDay * svc.ExecutionFactor
	if tier.IsComplex() {
		days *= complexExecutionMultiplier
	}
	days *= 1 + extraFloorFactor*float64(floorCount-1)
	return max(1, int(math.Ceil(catalog.RoundCents(days))))
}

func projectName(svc catalog.Service, entities types.ExtractedEntities, dc Context) string {
	if client := clientName(entities, dc); client != "" {
		return fmt.Sprintf("%s for %s", svc.Name, client)
	}
	return svc.Name
}

func scope(svc catalog.Service, areaM2 float64, floorCount int) string {
	return fmt.Sprintf("Design, supply, installation and commissioning of %s covering %.0f m² on %d %s, per %s.",
		svc.Name, areaM2, floorCount, plural(floorCount, "floor", "floors"), svc.Standards)
}

func resources(tier types.Tier, areaM2 float64) []types.Resource {
	crew := max(2, int(math.Ceil(areaM2/crewAreaM2)))
	out := []types.Resource{
		{Role: "Resident engineer", Count: 1, Allocation: "full time", Responsibility: "Technical direction and site supervision"},
		{Role: "Field technicians", Count: crew, Allocation: "full time", Responsibility: "Installation works"},
		{Role: "Safety supervisor", Count: 1, Allocation: "part time", Responsibility: "Occupational health and safety"},
		{Role: "Site assistant", Count: 1, Allocation: "full time", Responsibility: "Materials and logistics"},
	}
	if tier.IsComplex() {
		out = append(out,
			types.Resource{Role: "Project manager", Count: 1, Allocation: "part time", Responsibility: "Planning, cost and stakeholder control"},
			types.Resource{Role: "Quality control specialist", Count: 1, Allocation: "part time", Responsibility: "Inspection and test plans"},
			types.Resource{Role: "Cost controller", Count: 1, Allocation: "part time", Responsibility: "Budget tracking and reporting"},
		)
	}
	return out
}

func risks(tier types.Tier) []types.Risk {
	out := []types.Risk{
		{Description: "Late delivery of materials", Probability: "medium", Impact: "high", Mitigation: "Early purchase orders and alternate suppliers"},
		{Description: "Scope changes requested by the owner", Probability: "medium", Impact: "medium", Mitigation: "Formal change control"},
		{Description: "Site access restrictions", Probability: "low", Impact: "medium", Mitigation: "Agreed work windows"},
	}
	if tier.IsComplex() {
		out = append(out,
			types.Risk{Description: "Permit approval delays", Probability: "medium", Impact: "high", Mitigation: "Pre-submission meetings with the authority"},
			types.Risk{Description: "Interference with other trades", Probability: "high", Impact: "medium", Mitigation: "Weekly coordination meetings"},
		)
	}
	return out
}

func deliverables(tier types.Tier) []string {
	out := []string{
		"Project charter",
		"Work schedule",
		"Issued-for-construction drawings",
		"Technical specifications",
		"Material submittals",
		"Daily site log",
		"Test protocols",
		"As-built drawings",
		"Operation and maintenance manual",
		"Acceptance certificate",
	}
	if tier.IsComplex() {
		out = append(out,
			"Stakeholder register",
			"Risk register",
			"Monthly progress reports",
			"Quality dossier",
			"Cost control report",
		)
	}
	return out
}

// schedule chains the phases sequentially; each task depends on the previous one
func schedule(phases []types.Phase, start time.Time) []types.ScheduledTask {
	tasks := make([]types.ScheduledTask, 0, len(phases))
	offset := 0
	for i, p := range phases {
		task := types.ScheduledTask{
			ID:              i + 1,
			Name:            p.Name,
			StartOffsetDays: offset,
			DurationDays:    p.DurationDays,
		}
		if i > 0 {
			task.DependsOn = []int{i}
		}
		if !start.IsZero() {
			task.StartDate = formatDate(start.AddDate(0, 0, offset))
			task.EndDate = formatDate(start.AddDate(0, 0, offset+p.DurationDays))
		}
		tasks = append(tasks, task)
		offset += p.DurationDays
	}
	return tasks
}
