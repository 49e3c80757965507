package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunIDIsUnique(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	assert.NotEmpty(t, a.String())
	assert.NotEqual(t, a, b)
}

func TestParseRunID(t *testing.T) {
	id, err := ParseRunID("0198f1c2-aaaa-7bbb-8ccc-detached")
	require.NoError(t, err)
	assert.Equal(t, "0198f1c2-aaaa-7bbb-8ccc-detached", id.String())

	_, err = ParseRunID("")
	assert.Error(t, err)

	_, err = ParseRunID("   ")
	assert.Error(t, err)
}
