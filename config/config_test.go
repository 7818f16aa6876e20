package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
app_name: Catalog
run_mode: dev
logger:
  level: 5
  format: text
data:
  search:
    default_engine: memory
    memory:
      enabled: true
paging:
  default_page_size: 20
observes:
  tracer:
    sampling_rate: 0.5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.AppName != "Catalog" || cfg.RunMode != "dev" {
		t.Errorf("app = %s/%s", cfg.AppName, cfg.RunMode)
	}
	if cfg.Logger == nil || cfg.Logger.Level != 5 || cfg.Logger.IndexName != "catalog-dev-log" {
		t.Errorf("logger = %+v", cfg.Logger)
	}
	if cfg.Data.Search.DefaultEngine != "memory" || !cfg.Data.Search.Memory.Enabled {
		t.Errorf("search = %+v", cfg.Data.Search)
	}
	if cfg.Data.Paging.DefaultPageSize != 20 || cfg.Data.Paging.MaxPageSize != 10000 {
		t.Errorf("paging = %+v", cfg.Data.Paging)
	}
	if cfg.Observes.Tracer.SamplingRate != 0.5 || cfg.Observes.Tracer.ServiceName != "Catalog" {
		t.Errorf("tracer = %+v", cfg.Observes.Tracer)
	}

	got, err := GetConfig()
	if err != nil || got != cfg {
		t.Errorf("GetConfig() = %p, %v, want loaded config %p", got, err, cfg)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadConfig() with missing explicit file should fail")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("RUN_MODE", "prod")
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.RunMode != "prod" {
		t.Errorf("run mode = %s, want prod", cfg.RunMode)
	}
}

func TestWatch(t *testing.T) {
	p := writeConfig(t, sampleConfig)
	if _, err := LoadConfig(p); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	changed := make(chan *Config, 4)
	if err := Watch(func(c *Config) { changed <- c }, nil); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	// Give the watcher goroutine time to register.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(p, []byte("app_name: Renamed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.AppName == "Renamed" {
				return
			}
		case <-deadline:
			t.Fatal("no reload after config change")
		}
	}
}
