package domain

type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
	FrequencyCustom    Frequency = "CUSTOM"
)

// ContributionPlan is the recurring obligation template an organization
// expands into per-member contributions.
type ContributionPlan struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Frequency   Frequency `json:"frequency"`
	StartDate   string    `json:"start_date"` // yyyy-mm-dd
	EndDate     *string   `json:"end_date,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type PlanFilter struct {
	IsActive *bool
	Search   string
	Page     int32
	PageSize int32
}

// GenerateOptions tunes one generation run.
type GenerateOptions struct {
	Force         bool `json:"force"`
	DueDateOffset int  `json:"due_date_offset"` // extra days added to the computed due date
}
