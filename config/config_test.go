package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/award-engine/pay"
)

func TestParse(t *testing.T) {
	type want struct {
		addr   string
		dbPath string
		year   string
		seed   bool
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name: "defaults",
			want: want{addr: ":8080", dbPath: "awards.db", year: pay.DefaultYear, seed: true},
		},
		{
			name: "env only",
			env: map[string]string{
				"ADDR":          "localhost:9999",
				"DB_PATH":       "/tmp/a.db",
				"DEFAULT_YEAR":  "2025-2026",
				"SEED_DEFAULTS": "false",
			},
			want: want{addr: "localhost:9999", dbPath: "/tmp/a.db", year: "2025-2026", seed: false},
		},
		{
			name:  "flags override env",
			env:   map[string]string{"ADDR": "env:9000", "DB_PATH": "env.db"},
			flags: []string{"-addr", "flag:8000", "-db", ""},
			want:  want{addr: "flag:8000", dbPath: "", year: pay.DefaultYear, seed: true},
		},
		{
			name:  "unset flags keep env",
			env:   map[string]string{"DB_PATH": "env.db"},
			flags: []string{"-seed=false"},
			want:  want{addr: ":8080", dbPath: "env.db", year: pay.DefaultYear, seed: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Parse(tt.flags)
			require.NoError(t, err)

			assert.Equal(t, tt.want.addr, cfg.Addr)
			assert.Equal(t, tt.want.dbPath, cfg.DBPath)
			assert.Equal(t, tt.want.year, cfg.DefaultYear)
			assert.Equal(t, tt.want.seed, cfg.SeedDefaults)
		})
	}
}

func TestParse_DurationsAndOrigins(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestParse_InvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Nowhere/Atlantis")

	_, err := Parse(nil)
	assert.Error(t, err)
}

func TestParse_UnknownFlag(t *testing.T) {
	_, err := Parse([]string{"-nope"})
	assert.Error(t, err)
}

func TestInMemory(t *testing.T) {
	assert.True(t, (&Config{}).InMemory())
	assert.False(t, (&Config{DBPath: ":memory:"}).InMemory())
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger("debug", format)
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}

	_, err := NewLogger("loud", "json")
	assert.Error(t, err)

	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}
