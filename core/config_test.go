package core_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgg/classroom/core"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		wd := t.TempDir()
		t.Setenv("ENV", "")
		t.Setenv("WORK_DIR", wd)

		conf := core.NewConfig()
		assert.Equal(t, "DEV", conf.Env)
		assert.True(t, conf.Debug)
		assert.False(t, conf.TestMode)
		assert.Equal(t, wd, conf.WorkDir)
		assert.Equal(t, ":8080", conf.Server.Address)
		assert.Equal(t, 5*time.Second, conf.Server.ReadTimeout)
		assert.Equal(t, []string{"http://localhost:5173"}, conf.Server.AllowedOrigins)
		assert.Equal(t, "http://localhost:8080", conf.Admin.APIURL)
		assert.False(t, conf.Classes.SeedOnStart)
	})

	t.Run("env overrides", func(t *testing.T) {
		wd := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(wd, "config"), 0o755))
		dotEnv := "TEST_ADMIN_APIURL=http://api:8080\nTEST_SERVER_ADDRESS=:7070\n"
		require.NoError(t, os.WriteFile(filepath.Join(wd, "config", ".env.test"), []byte(dotEnv), 0o644))
		t.Cleanup(func() { _ = os.Unsetenv("TEST_ADMIN_APIURL") })

		t.Setenv("ENV", "test")
		t.Setenv("WORK_DIR", wd)
		t.Setenv("TEST_SERVER_ADDRESS", ":9090") // wins over .env
		t.Setenv("TEST_SERVER_READTIMEOUT", "3s")
		t.Setenv("TEST_CLASSES_SEEDONSTART", "true")

		conf := core.NewConfig()
		assert.Equal(t, "TEST", conf.Env)
		assert.False(t, conf.Debug)
		assert.True(t, conf.TestMode)
		assert.Equal(t, ":9090", conf.Server.Address)
		assert.Equal(t, 3*time.Second, conf.Server.ReadTimeout)
		assert.True(t, conf.Classes.SeedOnStart)
		assert.Equal(t, "http://api:8080", conf.Admin.APIURL)
	})
}
