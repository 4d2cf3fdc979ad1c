package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr bool
	}{
		{
			name: "empty uses defaults",
			yaml: "",
			want: Config{KillGrace: DefaultKillGrace, TreeMaxLines: DefaultTreeMaxLines},
		},
		{
			name: "all fields",
			yaml: "log_dir: /var/aiwr\ndefault_agent: codex\nkill_grace: 2s\ntree_max_lines: 10\nindex: true\nindex_path: /tmp/i.db\n",
			want: Config{
				LogDir:       "/var/aiwr",
				DefaultAgent: "codex",
				KillGrace:    2 * time.Second,
				TreeMaxLines: 10,
				Index:        true,
				IndexPath:    "/tmp/i.db",
			},
		},
		{
			name:    "bad duration",
			yaml:    "kill_grace: soon\n",
			wantErr: true,
		},
		{
			name:    "bad yaml",
			yaml:    "log_dir: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *cfg != tt.want {
				t.Errorf("ParseConfig() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestLoadConfig_CustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("default_agent: gemini\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultAgent != "gemini" || cfg.Path != path {
		t.Errorf("LoadConfig() = %+v", cfg)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("LoadConfig() with missing custom path error = %v, want StorageError", err)
	}
}

func TestConfig_ResolveLogDir(t *testing.T) {
	t.Setenv(EnvLogDir, "")

	cfg := &Config{LogDir: "/from/config"}
	if got := cfg.ResolveLogDir(); got != "/from/config" {
		t.Errorf("ResolveLogDir() = %q, want config value", got)
	}

	t.Setenv(EnvLogDir, "/from/env")
	if got := cfg.ResolveLogDir(); got != "/from/env" {
		t.Errorf("ResolveLogDir() = %q, env should win", got)
	}

	t.Setenv(EnvLogDir, "")
	var empty *Config
	cwd, _ := os.Getwd()
	if got := empty.ResolveLogDir(); got != filepath.Join(cwd, DefaultLogDir) {
		t.Errorf("ResolveLogDir() = %q, want default under cwd", got)
	}
}

func TestConfig_ResolveDefaultAgent(t *testing.T) {
	t.Setenv(EnvDefaultAgent, "")
	if got := (&Config{}).ResolveDefaultAgent(); got != DefaultAgent {
		t.Errorf("ResolveDefaultAgent() = %q, want %q", got, DefaultAgent)
	}
	if got := (&Config{DefaultAgent: "codex"}).ResolveDefaultAgent(); got != "codex" {
		t.Errorf("ResolveDefaultAgent() = %q, want codex", got)
	}
	t.Setenv(EnvDefaultAgent, "opencode")
	if got := (&Config{DefaultAgent: "codex"}).ResolveDefaultAgent(); got != "opencode" {
		t.Errorf("ResolveDefaultAgent() = %q, env should win", got)
	}
}

func TestConfig_ResolveIndexPath(t *testing.T) {
	t.Setenv(EnvLogDir, "/data/aiwr/logs")
	if got := (&Config{}).ResolveIndexPath(); got != "/data/aiwr/index.db" {
		t.Errorf("ResolveIndexPath() = %q", got)
	}
	if got := (&Config{IndexPath: "/x/y.db"}).ResolveIndexPath(); got != "/x/y.db" {
		t.Errorf("ResolveIndexPath() = %q", got)
	}
}
