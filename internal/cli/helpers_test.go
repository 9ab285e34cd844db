package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/config"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/report"
	"github.com/swamp-dev/eunoia/internal/sample"
)

func quiet(t *testing.T) {
	t.Helper()
	prev := logger
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	t.Cleanup(func() { logger = prev })
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		wantLen int // total length including brackets
	}{
		{"0 percent", 0.0, 20, 22},
		{"50 percent", 50.0, 20, 22},
		{"100 percent", 100.0, 20, 22},
		{"25 percent", 25.0, 40, 42},
		{"negative", -10.0, 10, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := renderProgressBar(tt.percent, tt.width)

			runes := []rune(result)
			if len(runes) != tt.wantLen {
				t.Errorf("renderProgressBar(%.0f, %d) rune length = %d, want %d", tt.percent, tt.width, len(runes), tt.wantLen)
			}
			if result[0] != '[' {
				t.Error("expected bar to start with '['")
			}
			if runes[len(runes)-1] != ']' {
				t.Error("expected bar to end with ']'")
			}
		})
	}

	if bar := renderProgressBar(0.0, 10); strings.Contains(bar, "█") {
		t.Error("0% bar should have no filled blocks")
	}
	if bar := renderProgressBar(100.0, 10); strings.Contains(bar, "░") {
		t.Error("100% bar should have no empty blocks")
	}
	if bar := renderProgressBar(150.0, 10); strings.Contains(bar, "░") {
		t.Error(">100% bar should be clamped to full (no empty blocks)")
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status   model.TaskStatus
		expected string
	}{
		{model.TaskCompleted, "✓"},
		{model.TaskInProgress, "▶"},
		{model.TaskPending, "○"},
		{"", "○"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if result := statusIcon(tt.status); result != tt.expected {
				t.Errorf("statusIcon(%q) = %q, want %q", tt.status, result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"over length gets ellipsis", "hello world", 8, "hello..."},
		{"empty string", "", 10, ""},
		{"one over max", "abcdef", 5, "ab..."},
		{"multibyte runes are not split", "çalışmak güzel", 8, "çalış..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
			if n := len([]rune(result)); n > tt.max {
				t.Errorf("truncate result length %d exceeds max %d", n, tt.max)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2024-06-10T09:30:00Z", time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC), false},
		{"2024-06-10 09:30", time.Date(2024, 6, 10, 9, 30, 0, 0, time.Local), false},
		{"2024-06-10", time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local), false},
		{"next tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if got, err := optionalTime(""); got != nil || err != nil {
		t.Errorf("optionalTime(\"\") = %v, %v", got, err)
	}
}

func TestReportWindow(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		days      int
		wantStart string
		wantEnd   string
	}{
		{"defaults to last week", "", "", 7, "2024-06-04", "2024-06-10"},
		{"explicit window untouched", "2024-05-01", "2024-05-31", 7, "2024-05-01", "2024-05-31"},
		{"days counted back from end", "", "2024-05-31", 3, "2024-05-29", "2024-05-31"},
		{"non-positive days means one day", "", "", 0, "2024-06-10", "2024-06-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := reportWindow(now, tt.start, tt.end, tt.days)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("reportWindow = %s..%s, want %s..%s", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	t.Setenv("EUNOIA_STORAGE_BACKEND", "sqlite")
	t.Setenv("EUNOIA_GATEWAY_KIND", "stub")
	t.Setenv("EUNOIA_HABITS_STREAK_POLICY", "reset")

	v := viper.New()
	configureEnv(v)
	v.Set("user.id", "ada")

	cfg := config.DefaultConfig()
	applyOverrides(cfg, v)

	if cfg.Storage.Backend != "sqlite" || cfg.Gateway.Kind != "stub" || cfg.Habits.StreakPolicy != "reset" {
		t.Errorf("environment overrides not applied: %+v", cfg)
	}
	if cfg.User.ID != "ada" {
		t.Errorf("User.ID = %q, want ada", cfg.User.ID)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unset keys must keep defaults, got server.addr %q", cfg.Server.Addr)
	}
}

func TestLoadConfigRejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := config.DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })

	v := viper.New()
	if _, err := loadConfig(v); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	v.Set("storage.backend", "floppy")
	if _, err := loadConfig(v); err == nil {
		t.Error("expected an unknown backend to be rejected")
	}
}

func TestCreateConfigFile(t *testing.T) {
	quiet(t)
	dir := t.TempDir()

	initBackend, initGateway, initForce = "sqlite", "stub", false
	t.Cleanup(func() { initBackend, initGateway, initForce = "file", "http", false })

	created, err := createConfigFile(dir, "ada")
	if err != nil || !created {
		t.Fatalf("createConfigFile = %v, %v", created, err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.ID != "ada" || cfg.Storage.Backend != "sqlite" || cfg.Gateway.Kind != "stub" {
		t.Errorf("unexpected config %+v", cfg)
	}

	created, err = createConfigFile(dir, "bob")
	if err != nil || created {
		t.Errorf("existing file must be kept without --force, got %v, %v", created, err)
	}

	initBackend = "tape"
	initForce = true
	if _, err := createConfigFile(dir, "ada"); err == nil {
		t.Error("expected invalid backend to be rejected")
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err != nil {
		t.Errorf("config file should still exist: %v", err)
	}
}

func TestBuildOverview(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	d := sample.Build(now)

	ov := buildOverview(d.Tasks, d.Habits, d.Reminders, clock.NewFixed(now))

	if ov.Tasks.Total != len(d.Tasks) {
		t.Errorf("Total = %d, want %d", ov.Tasks.Total, len(d.Tasks))
	}
	if sum := ov.Tasks.Completed + ov.Tasks.InProgress + ov.Tasks.Pending; sum != ov.Tasks.Total {
		t.Errorf("status counts sum to %d, want %d", sum, ov.Tasks.Total)
	}
	want := 100 * float64(ov.Tasks.Completed) / float64(ov.Tasks.Total)
	if ov.Completion != want {
		t.Errorf("Completion = %v, want %v", ov.Completion, want)
	}
	for _, h := range d.Habits {
		done := h.LastCompleted != nil && clock.SameDay(*h.LastCompleted, now)
		if ov.DoneToday[h.ID] != done {
			t.Errorf("DoneToday[%s] = %v, want %v", h.ID, ov.DoneToday[h.ID], done)
		}
	}

	empty := buildOverview(nil, nil, nil, clock.NewFixed(now))
	if empty.Completion != 0 || empty.Tasks.Total != 0 {
		t.Errorf("unexpected empty overview %+v", empty)
	}
}

func TestNewAppWiring(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	cfg := config.DefaultConfig()
	cfg.Mode = "sample"
	cfg.Storage.Backend = "memory"
	cfg.Gateway.Kind = "stub"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	a, err := newApp(ctx, cfg, clock.NewFixed(now), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	tasks, err := a.records.Tasks.List(ctx, a.scope())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != len(sample.Build(now).Tasks) {
		t.Errorf("expected sample tasks, got %d", len(tasks))
	}

	out, err := a.reports.Run(ctx, a.scope(), report.FeatureExpense, "2024-05-28", "2024-06-10")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r, ok := out.(*report.ExpenseReport); !ok || r.Source != report.SourceFallback {
		t.Errorf("expected a fallback expense report from the stub gateway, got %#v", out)
	}

	cfg.Mode = "user"
	cfg.User.ID = "ada"
	if got := a.scope().Namespace(); got != "user/ada" {
		t.Errorf("scope namespace = %q", got)
	}
}
