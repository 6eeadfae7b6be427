package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/predicta/internal/app"
	"github.com/khrees2412/predicta/pkg/models"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42", "job")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(bad, "job")
		assert.ErrorIs(t, err, app.ErrInvalidArgument, bad)
	}
}

func TestReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Python developer"), 0600))

	got, err := readText("", path, "résumé")
	require.NoError(t, err)
	assert.Equal(t, "Python developer", got)

	got, err = readText("inline", "", "résumé")
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	_, err = readText("inline", path, "résumé")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)

	_, err = readText("", "", "résumé")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)

	_, err = readText("", filepath.Join(t.TempDir(), "missing.txt"), "résumé")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLimitRows(t *testing.T) {
	rows := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, limitRows(rows, 2))
	assert.Equal(t, rows, limitRows(rows, 0))
	assert.Equal(t, rows, limitRows(rows, 10))
}

func TestTermNames(t *testing.T) {
	weights := []models.TermWeight{{Term: "python", Weight: 0.5}, {Term: "django", Weight: 0.3}, {Term: "api", Weight: 0.1}}
	assert.Equal(t, []string{"python", "django"}, termNames(weights, 2))
	assert.Empty(t, termNames(nil, 5))
}

func TestRenderRanking_IncludesRows(t *testing.T) {
	out := renderRanking([]models.RankedRow{
		{ID: 7, Name: "Ada", Score: 0.4321, TokenCount: 12, SkillOverlap: []string{"python"}},
	})
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "0.4321")
	assert.Contains(t, out, "python")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Unnamed", displayName(""))
	assert.Equal(t, "Ada", displayName("Ada"))
}
