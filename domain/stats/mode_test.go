package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"predix/domain/core"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("linear")
	assert.NoError(t, err)
	assert.Equal(t, ModeLinear, m)

	m, err = ParseMode("logistic")
	assert.NoError(t, err)
	assert.Equal(t, ModeLogistic, m)

	_, err = ParseMode("poisson")
	assert.ErrorIs(t, err, core.ErrInvalidMode)

	_, err = ParseMode("")
	assert.ErrorIs(t, err, core.ErrInvalidMode)
}
