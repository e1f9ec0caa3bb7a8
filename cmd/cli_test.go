package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()

	t.Setenv("HOME", home)

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfigFixture(t *testing.T, home, fitbitBaseURL string) {
	t.Helper()

	configDir := filepath.Join(home, ".vitals")
	require.NoError(t, os.MkdirAll(configDir, 0o700))

	contents := "user_id = \"me\"\n"
	if fitbitBaseURL != "" {
		contents += fmt.Sprintf("\n[providers.fitbit]\nclient_id = \"client\"\nclient_secret = \"secret\"\nbase_url = %q\n", fitbitBaseURL)
	}

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(contents), 0o600))
}

func writeCredentialFixture(t *testing.T, home string) {
	t.Helper()

	configDir := filepath.Join(home, ".vitals")
	require.NoError(t, os.MkdirAll(configDir, 0o700))

	expiresAt := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	contents := fmt.Sprintf(`version = 1

[[credentials]]
provider = "fitbit"
user_id = "me"
access_token = "token-abc"
refresh_token = "refresh-abc"
expires_at = %q
`, expiresAt)

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "credentials.toml"), []byte(contents), 0o600))
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestProvidersListsAllTrackers(t *testing.T) {
	home := t.TempDir()
	writeConfigFixture(t, home, "")

	stdout, _, err := executeCLI(t, home, "providers")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fitbit")
	assert.Contains(t, stdout, "oura")
	assert.Contains(t, stdout, "whoop")
	assert.Contains(t, stdout, "polar")
	assert.Contains(t, stdout, "not connected")
}

func TestProvidersShowsConnectedState(t *testing.T) {
	home := t.TempDir()
	writeConfigFixture(t, home, "")
	writeCredentialFixture(t, home)

	stdout, _, err := executeCLI(t, home, "providers")
	require.NoError(t, err)
	assert.Contains(t, stdout, "connected (token valid for")
}

func TestSnapshotRejectsUnknownProvider(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "snapshot", "garmin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestSnapshotWithoutCredentialFails(t *testing.T) {
	home := t.TempDir()
	writeConfigFixture(t, home, "")

	_, _, err := executeCLI(t, home, "snapshot", "fitbit", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential not found")
}

func TestSnapshotJSONAgainstEmptyVendor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	home := t.TempDir()
	writeConfigFixture(t, home, server.URL)
	writeCredentialFixture(t, home)

	stdout, _, err := executeCLI(t, home, "snapshot", "fitbit", "--json")
	require.NoError(t, err)

	require.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"snapshot\"")
	assert.NotContains(t, stdout, "resource_errors")
}

func TestDisconnectIsIdempotent(t *testing.T) {
	home := t.TempDir()
	writeConfigFixture(t, home, "")

	stdout, _, err := executeCLI(t, home, "disconnect", "fitbit")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Disconnected fitbit.")
}

func TestConnectWithoutClientConfigFails(t *testing.T) {
	home := t.TempDir()
	writeConfigFixture(t, home, "")

	_, _, err := executeCLI(t, home, "connect", "oura")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no client_id configured")
}
