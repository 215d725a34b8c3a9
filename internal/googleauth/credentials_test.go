package googleauth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		t.Setenv("GOOGLE_CREDENTIALS", "")

		_, err := LoadCredentials()
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("inline json", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		t.Setenv("GOOGLE_CREDENTIALS", `{"type":"service_account"}`)

		creds, err := LoadCredentials()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"service_account"}`, string(creds))
	})

	t.Run("file wins over inline", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"from":"file"}`), 0o600))
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
		t.Setenv("GOOGLE_CREDENTIALS", `{"from":"env"}`)

		creds, err := LoadCredentials()
		require.NoError(t, err)
		assert.JSONEq(t, `{"from":"file"}`, string(creds))
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", filepath.Join(t.TempDir(), "missing.json"))

		_, err := LoadCredentials()
		assert.ErrorContains(t, err, "failed to read credentials file")
	})
}
