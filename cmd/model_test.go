package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/predicta/internal/app"
)

// runCLI executes the CLI against a config and database under a temporary home
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	if current != nil {
		current.Close()
		current = nil
	}
	return out.String(), err
}

func withTempHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestModelScore_NoCandidates(t *testing.T) {
	withTempHome(t)

	_, err := runCLI(t, "job", "add", "--title", "Backend Engineer", "--text", "Python developer with Django")
	require.NoError(t, err)

	_, err = runCLI(t, "model", "score", "1", "--json")
	assert.ErrorIs(t, err, app.ErrNoCandidates)
}

func TestModelScore_FallsBackWithoutModel(t *testing.T) {
	withTempHome(t)

	_, err := runCLI(t, "job", "add", "--title", "Backend Engineer", "--text", "Python developer with Django")
	require.NoError(t, err)
	_, err = runCLI(t, "candidate", "add", "1", "--name", "Ada", "--text", "Python engineer, 4 years of experience")
	require.NoError(t, err)

	out, err := runCLI(t, "model", "score", "1", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ada"`)
	assert.Contains(t, out, `"modelUsed": false`)
}

func TestRank_StoresRankingAndRun(t *testing.T) {
	withTempHome(t)

	_, err := runCLI(t, "job", "add", "--title", "Backend Engineer", "--text", "Python developer with Django")
	require.NoError(t, err)
	_, err = runCLI(t, "candidate", "add", "1", "--name", "Ada", "--text", "Python and Django")
	require.NoError(t, err)

	out, err := runCLI(t, "rank", "1", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"run_id"`)

	out, err = runCLI(t, "rank", "show", "1", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ada"`)
}
