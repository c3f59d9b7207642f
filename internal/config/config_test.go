package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray config.yaml or .env is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 1200*time.Millisecond, cfg.Quiz.AutoDismiss)
	assert.False(t, cfg.Quiz.Shuffle)
	assert.False(t, cfg.Quiz.TrimSpace)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "quizlet.yaml")
	data := "env: production\nbank_file: swift.yaml\nquiz:\n  shuffle: true\n  auto_dismiss: 2s\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "swift.yaml", cfg.BankFile)
	assert.True(t, cfg.Quiz.Shuffle)
	assert.Equal(t, 2*time.Second, cfg.Quiz.AutoDismiss)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("QUIZLET_DB_PATH", "/tmp/q.db")
	t.Setenv("QUIZLET_QUIZ_TRIM_SPACE", "true")
	t.Setenv("QUIZLET_QUIZ_AUTO_DISMISS", "0s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/q.db", cfg.DBPath)
	assert.True(t, cfg.Quiz.TrimSpace)
	assert.Equal(t, time.Duration(0), cfg.Quiz.AutoDismiss)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("QUIZLET_BANK_FILE=from-dotenv.yaml\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QUIZLET_BANK_FILE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.yaml", cfg.BankFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := chdir(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"negative auto dismiss", map[string]string{"QUIZLET_QUIZ_AUTO_DISMISS": "-1s"}},
		{"unknown log level", map[string]string{"QUIZLET_LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}
