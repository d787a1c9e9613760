package commands

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renotrack/renovation-tracker/internal/inference"
	"github.com/renotrack/renovation-tracker/internal/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "scrape", "predict", "token", "worker"} {
		assert.True(t, names[want], want)
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "--subject", "alice", "--role", "admin", "--ttl", "2h")
	require.NoError(t, err)

	var tok utils.AccessToken
	require.NoError(t, json.Unmarshal([]byte(out), &tok))
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), tok.Exp, 5*time.Second)

	claims, err := utils.ParseAccessToken("cli-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := run(t, "token", "--subject", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestPredictCommandUsesKeywords(t *testing.T) {
	t.Setenv("TEXT_INFERENCE_BACKEND", "keywords")

	out, err := run(t, "predict", "Fully", "remodeled", "kitchen", "in", "2020.")
	require.NoError(t, err)

	var j inference.Judgement
	require.NoError(t, json.Unmarshal([]byte(out), &j))
	assert.True(t, j.Renovations.Kitchen)
	assert.False(t, j.Renovations.Basement)
	assert.Equal(t, inference.SourceKeywords, j.Source)
}

func TestScrapeRejectsBadURL(t *testing.T) {
	_, err := run(t, "scrape", "not a url")
	require.Error(t, err)
}
