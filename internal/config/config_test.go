package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup location at fresh temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, key := range []string{
		"FLASHQUIZ_QUESTIONS_PATH",
		"FLASHQUIZ_EXTRACTOR",
		"FLASHQUIZ_SHUFFLE_SEED",
		"FLASHQUIZ_PROGRESS_BACKEND",
		"FLASHQUIZ_PROGRESS_PATH",
		"FLASHQUIZ_LOG_LEVEL",
		"FLASHQUIZ_LOG_FORMAT",
		"FLASHQUIZ_LOG_FILE",
	} {
		// Register restore, then clear for the duration of the test.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("questions", "", "")
	fs.String("backend", "", "")
	fs.String("progress", "", "")
	fs.String("log-level", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "questions.json", cfg.QuestionsPath)
	assert.Equal(t, "native", cfg.Extractor)
	assert.Equal(t, uint64(0), cfg.ShuffleSeed)
	assert.Equal(t, BackendFile, cfg.Progress.Backend)
	assert.Empty(t, cfg.Progress.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`questions_path: deck.json
extractor: pdftotext
shuffle_seed: 99
progress:
  backend: sqlite
  path: /tmp/quiz.db
log:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(LoadOptions{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "deck.json", cfg.QuestionsPath)
	assert.Equal(t, "pdftotext", cfg.Extractor)
	assert.Equal(t, uint64(99), cfg.ShuffleSeed)
	assert.Equal(t, BackendSQLite, cfg.Progress.Backend)
	assert.Equal(t, "/tmp/quiz.db", cfg.Progress.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFindsConfigInWorkingDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flashquiz.yaml"), []byte("questions_path: here.json\n"), 0o644))

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "here.json", cfg.QuestionsPath)
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(dir, "nope.yaml")})
	require.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flashquiz.yaml"), []byte("progress:\n  backend: file\n"), 0o644))
	t.Setenv("FLASHQUIZ_PROGRESS_BACKEND", "sqlite")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Progress.Backend)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FLASHQUIZ_PROGRESS_BACKEND", "sqlite")
	t.Setenv("FLASHQUIZ_QUESTIONS_PATH", "env.json")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--backend", "file"}))

	cfg, err := Load(LoadOptions{Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Progress.Backend)
	assert.Equal(t, "env.json", cfg.QuestionsPath, "unset flag must not shadow env")
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FLASHQUIZ_LOG_LEVEL=error\n"), 0o644))

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "FLASHQUIZ_PROGRESS_BACKEND", "redis"},
		{"unknown extractor", "FLASHQUIZ_EXTRACTOR", "ocr"},
		{"unknown log level", "FLASHQUIZ_LOG_LEVEL", "verbose"},
		{"unknown log format", "FLASHQUIZ_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(LoadOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestProgressPath(t *testing.T) {
	dir := isolate(t)
	dataHome := filepath.Join(dir, "data")

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"file default", Config{Progress: Progress{Backend: BackendFile}}, filepath.Join(dataHome, "flashquiz", "correct_answers.json")},
		{"sqlite default", Config{Progress: Progress{Backend: BackendSQLite}}, filepath.Join(dataHome, "flashquiz", "flashquiz.db")},
		{"explicit", Config{Progress: Progress{Backend: BackendFile, Path: filepath.Join(dir, "p", "x.json")}}, filepath.Join(dir, "p", "x.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ProgressPath()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.DirExists(t, filepath.Dir(got))
		})
	}
}

func TestScreenLogFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	got, err := cfg.ScreenLogFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state", "flashquiz", "flashquiz.log"), got)
	assert.DirExists(t, filepath.Dir(got))

	cfg.Log.File = filepath.Join(dir, "logs", "quiz.log")
	got, err = cfg.ScreenLogFile()
	require.NoError(t, err)
	assert.Equal(t, cfg.Log.File, got)
	assert.DirExists(t, filepath.Join(dir, "logs"))
}
