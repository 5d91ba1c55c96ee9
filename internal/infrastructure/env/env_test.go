package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvServiceFromFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	local := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(base, []byte("UITEST_ENV_FILE=from-base\nUITEST_ENV_BASE_ONLY=from-base\nUITEST_ENV_OVERRIDE=from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(local, []byte("UITEST_ENV_LOCAL=from-local\nUITEST_ENV_FILE=from-local\nUITEST_ENV_OVERRIDE=from-local\n"), 0o600))

	t.Setenv("UITEST_ENV_OVERRIDE", "from-process")
	t.Cleanup(func() {
		os.Unsetenv("UITEST_ENV_FILE")
		os.Unsetenv("UITEST_ENV_BASE_ONLY")
		os.Unsetenv("UITEST_ENV_LOCAL")
	})

	svc := NewEnvServiceFromFiles(base, local, filepath.Join(dir, ".env.missing"))

	assert.Equal(t, []string{base, local}, svc.Loaded())
	assert.Equal(t, "from-local", svc.Get("UITEST_ENV_FILE"), "specific file overrides .env")
	assert.Equal(t, "from-base", svc.Get("UITEST_ENV_BASE_ONLY"))
	assert.Equal(t, "from-local", svc.Get("UITEST_ENV_LOCAL"))
	assert.Equal(t, "from-process", svc.Get("UITEST_ENV_OVERRIDE"))
}

func TestNewEnvServiceFromFiles_SpecificFileSetsBaseURL(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	ci := filepath.Join(dir, ".env.ci")
	require.NoError(t, os.WriteFile(base, []byte("UITEST_ENV_BASE_URL=http://localhost:3000\nUITEST_ENV_HEADLESS=false\n"), 0o600))
	require.NoError(t, os.WriteFile(ci, []byte("UITEST_ENV_BASE_URL=http://ci.internal\nUITEST_ENV_HEADLESS=true\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("UITEST_ENV_BASE_URL")
		os.Unsetenv("UITEST_ENV_HEADLESS")
	})

	svc := NewEnvServiceFromFiles(base, ci)

	assert.Equal(t, "http://ci.internal", svc.Get("UITEST_ENV_BASE_URL"))
	assert.True(t, svc.GetBool("UITEST_ENV_HEADLESS", false))
}
