package plaintext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predix/domain/core"
)

func writeExpressionFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"blood.txt":  "ENSG2 ENSG3\n1.5 2.5\n3.5 4.5\n",
		"muscle.txt": "ENSG1 ENSG2\n0.1 0.2\n0.3 0.4\n",
		"README.md":  "not an expression file\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestSingleFileExpression(t *testing.T) {
	dir := writeExpressionFolder(t)
	expr := NewExpression(filepath.Join(dir, "muscle.txt"))

	require.NoError(t, expr.Open())
	defer expr.Close()

	genes, err := expr.Genes()
	require.NoError(t, err)
	assert.Equal(t, []string{"ENSG1", "ENSG2"}, genes)

	e, err := expr.ExpressionForGene("ENSG2")
	require.NoError(t, err)
	assert.Equal(t, []string{"muscle"}, e.Labels)

	values, ok := e.Vector()
	require.True(t, ok)
	assert.Equal(t, []float64{0.2, 0.4}, values)

	_, err = expr.ExpressionForGene("ENSG9")
	assert.ErrorIs(t, err, core.ErrGeneNotFound)
}

func TestExpressionRequiresOpen(t *testing.T) {
	expr := NewExpression("whatever.txt")
	_, err := expr.Genes()
	assert.Error(t, err)
}

func TestManagerMergesTissues(t *testing.T) {
	dir := writeExpressionFolder(t)
	m := NewManager(dir, `(.*)\.txt$`)

	require.NoError(t, m.Open())
	defer m.Close()

	genes, err := m.Genes()
	require.NoError(t, err)
	assert.Equal(t, []string{"ENSG1", "ENSG2", "ENSG3"}, genes)

	// ENSG2 appears in both tissues, in label order.
	e, err := m.ExpressionForGene("ENSG2")
	require.NoError(t, err)
	assert.Equal(t, []string{"blood", "muscle"}, e.Labels)
	assert.Equal(t, [][]float64{{1.5, 3.5}, {0.2, 0.4}}, e.Values)

	// ENSG3 is blood-only.
	e, err = m.ExpressionForGene("ENSG3")
	require.NoError(t, err)
	assert.Equal(t, []string{"blood"}, e.Labels)

	_, err = m.ExpressionForGene("ENSG9")
	assert.ErrorIs(t, err, core.ErrGeneNotFound)
}

func TestStreamingManagerMatchesEagerManager(t *testing.T) {
	dir := writeExpressionFolder(t)

	eager := NewManager(dir, `(.*)\.txt$`)
	require.NoError(t, eager.Open())
	defer eager.Close()

	streaming := NewStreamingManager(dir, `(.*)\.txt$`)
	require.NoError(t, streaming.Open())
	defer streaming.Close()

	eagerGenes, err := eager.Genes()
	require.NoError(t, err)
	streamingGenes, err := streaming.Genes()
	require.NoError(t, err)
	assert.Equal(t, eagerGenes, streamingGenes)

	for _, gene := range eagerGenes {
		want, err := eager.ExpressionForGene(gene)
		require.NoError(t, err)
		got, err := streaming.ExpressionForGene(gene)
		require.NoError(t, err)
		assert.Equal(t, want, got, "gene %s", gene)
	}
}

func TestManagerPatternCaptureGroupSetsLabel(t *testing.T) {
	dir := t.TempDir()
	content := "ENSG1\n1.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pred_muscle.txt"), []byte(content), 0o644))

	m := NewManager(dir, `pred_(.*)\.txt$`)
	require.NoError(t, m.Open())
	defer m.Close()

	e, err := m.ExpressionForGene("ENSG1")
	require.NoError(t, err)
	assert.Equal(t, []string{"muscle"}, e.Labels)
}

func TestManagerFailsOnEmptyFolder(t *testing.T) {
	m := NewManager(t.TempDir(), `(.*)\.txt$`)
	assert.Error(t, m.Open())
}

func TestManagerFailsOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("ENSG1 ENSG2\n1.0\n"), 0o644))

	m := NewManager(dir, `(.*)\.txt$`)
	assert.Error(t, m.Open())
}
