package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFromThresholds(t *testing.T) {
	assert.Equal(t, PolicyNone, PolicyFromThresholds(0, 0).Kind)
	assert.Equal(t, PolicyEigenRatio, PolicyFromThresholds(0, 0.1).Kind)

	// Condition number wins when both are set.
	p := PolicyFromThresholds(30, 0.1)
	assert.Equal(t, PolicyConditionNumber, p.Kind)
	assert.Equal(t, 30.0, p.Threshold)
}

func TestNonePolicyHasNoFilter(t *testing.T) {
	assert.Nil(t, PolicyFromThresholds(0, 0).Filter())
}

func TestEigenRatioFilterKeepsValuesAboveMaxRatio(t *testing.T) {
	filter := EigenPolicy{Kind: PolicyEigenRatio, Threshold: 0.5}.Filter()
	require.NotNil(t, filter)

	// max is 10; the cut is > 5.
	assert.Equal(t, []int{0, 2}, filter([]float64{10, 5, 6, 1}))
}

func TestConditionNumberFilterUsesReciprocalRatio(t *testing.T) {
	filter := EigenPolicy{Kind: PolicyConditionNumber, Threshold: 10}.Filter()
	require.NotNil(t, filter)

	// max is 100; the cut is > 100/10 = 10.
	assert.Equal(t, []int{0, 1}, filter([]float64{100, 20, 10, 0.5}))
}

func TestFilterEmptyInput(t *testing.T) {
	filter := EigenPolicy{Kind: PolicyEigenRatio, Threshold: 0.5}.Filter()
	assert.Nil(t, filter(nil))
}
