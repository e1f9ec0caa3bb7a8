package e2e

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeCredentialsFixture(home))

	stdout, stderr, err := runVitals(t, binaryPath, home, "providers")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "fitbit")
	assert.Contains(t, stdout, "connected (token valid for")
	assert.Contains(t, stdout, "not connected")

	stdout, stderr, err = runVitals(t, binaryPath, home, "disconnect", "fitbit")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Disconnected fitbit.")

	stdout, stderr, err = runVitals(t, binaryPath, home, "providers")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.NotContains(t, stdout, "token valid")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "vitals-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/vitals")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build vitals binary: %s", string(output))
	return binaryPath
}

func runVitals(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeCredentialsFixture(home string) error {
	configDir := filepath.Join(home, ".vitals")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	credentials := fmt.Sprintf(`version = 1

[[credentials]]
provider = "fitbit"
user_id = "me"
access_token = "token-abc"
refresh_token = "refresh-abc"
scope = "sleep heartrate activity profile"
obtained_at = %q
expires_at = %q
`,
		time.Now().UTC().Format(time.RFC3339),
		time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	)

	return os.WriteFile(filepath.Join(configDir, "credentials.toml"), []byte(credentials), 0o600)
}
