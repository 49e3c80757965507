package stats

// FilterFunc maps a sequence of eigenvalues to the indices worth keeping.
// It is handed to the association routine and evaluated there, never here.
type FilterFunc func(values []float64) []int

// PolicyKind enumerates the configured eigenvalue filtering strategies.
type PolicyKind string

const (
	PolicyNone            PolicyKind = "none"
	PolicyConditionNumber PolicyKind = "condition_number"
	PolicyEigenRatio      PolicyKind = "eigen_ratio"
)

// EigenPolicy is a configuration-driven eigenvalue filter: a strategy kind
// plus its threshold. The closure is materialized lazily via Filter.
type EigenPolicy struct {
	Kind      PolicyKind
	Threshold float64
}

// PolicyFromThresholds derives the filter policy from configuration. The
// condition number takes precedence; with neither threshold set the policy
// is PolicyNone.
func PolicyFromThresholds(conditionNumber, eigenRatio float64) EigenPolicy {
	if conditionNumber != 0 {
		return EigenPolicy{Kind: PolicyConditionNumber, Threshold: conditionNumber}
	}
	if eigenRatio != 0 {
		return EigenPolicy{Kind: PolicyEigenRatio, Threshold: eigenRatio}
	}
	return EigenPolicy{Kind: PolicyNone}
}

// Filter returns the eigenvalue filter for the policy, or nil for PolicyNone.
func (p EigenPolicy) Filter() FilterFunc {
	switch p.Kind {
	case PolicyConditionNumber:
		ratio := 1.0 / p.Threshold
		return func(values []float64) []int {
			return filterEigenValuesFromMax(values, ratio)
		}
	case PolicyEigenRatio:
		ratio := p.Threshold
		return func(values []float64) []int {
			return filterEigenValuesFromMax(values, ratio)
		}
	default:
		return nil
	}
}

// filterEigenValuesFromMax keeps the indices of eigenvalues strictly above
// ratio times the largest eigenvalue.
func filterEigenValuesFromMax(values []float64, ratio float64) []int {
	if len(values) == 0 {
		return nil
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	keep := make([]int, 0, len(values))
	for i, v := range values {
		if v > max*ratio {
			keep = append(keep, i)
		}
	}
	return keep
}
