package types

// PlanType selects how a pricing plan derives the markup over wholesale cost.
type PlanType string

const (
	// PlanTypePercentage marks up by a percentage of the wholesale cost
	PlanTypePercentage PlanType = "percentage"
	// PlanTypeFixed adds a flat amount regardless of cost
	PlanTypeFixed PlanType = "fixed"
	// PlanTypeFree sells at zero
	PlanTypeFree PlanType = "free"
)

func (t PlanType) Validate() bool {
	switch t {
	case PlanTypePercentage, PlanTypeFixed, PlanTypeFree:
		return true
	}
	return false
}
