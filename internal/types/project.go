package types

// Phase is one stage of a project plan
type Phase struct {
	Name         string   `json:"name"`
	DurationDays int      `json:"duration_days"`
	Activities   []string `json:"activities"`
	Deliverable  string   `json:"deliverable"`
}

// Resource is a staffing line of a project plan
type Resource struct {
	Role           string `json:"role"`
	Count          int    `json:"count"`
	Allocation     string `json:"allocation"`
	Responsibility string `json:"responsibility"`
}

// Risk is an identified project risk with its mitigation
type Risk struct {
	Description string `json:"description"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

// ScheduledTask is one bar of the project schedule (complex tier only)
type ScheduledTask struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	StartOffsetDays int    `json:"start_offset_days"`
	DurationDays    int    `json:"duration_days"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	Progress        int    `json:"progress"`
	DependsOn       []int  `json:"depends_on,omitempty"`
}

// ProjectDocument is a phased execution plan for a service
type ProjectDocument struct {
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	Service           ServiceCategory   `json:"service"`
	ServiceName       string            `json:"service_name"`
	Tier              Tier              `json:"tier"`
	Client            string            `json:"client,omitempty"`
	Description       string            `json:"description"`
	Scope             string            `json:"scope"`
	StartDate         string            `json:"start_date,omitempty"`
	EndDate           string            `json:"end_date,omitempty"`
	TotalDurationDays int               `json:"total_duration_days"`
	EstimatedBudget   float64           `json:"estimated_budget"`
	Currency          string            `json:"currency"`
	Phases            []Phase           `json:"phases"`
	Resources         []Resource        `json:"resources"`
	Risks             []Risk            `json:"risks"`
	Deliverables      []string          `json:"deliverables"`
	Schedule          []ScheduledTask   `json:"schedule,omitempty"`
	Standards         string            `json:"standards"`
	Entities          ExtractedEntities `json:"entities"`
	PendingQuestions  []string          `json:"pending_questions,omitempty"`
}
