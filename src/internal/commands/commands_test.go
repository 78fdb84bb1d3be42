package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maksimkurb/tracegate/src/internal/config"
	"github.com/maksimkurb/tracegate/src/internal/trace"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracegate.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, cmd Runner, ctx *AppContext, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	ctx.Stdout = &out
	if err := cmd.Init(args, ctx); err != nil {
		return "", err
	}
	err := cmd.Run()
	return out.String(), err
}

const sampleConfig = `[trace]
default_verbosity = 1
output = "stdout"
color = "off"

[[component]]
name = "db"
verbosity = 4

[[component]]
name = "db.pool"
verbosity = 2
`

func TestPrintCommand(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "http=3")
	path := writeConfig(t, sampleConfig)

	out, err := runCommand(t, CreatePrintCommand(), &AppContext{ConfigPath: path})
	if err != nil {
		t.Fatalf("print: %v", err)
	}

	if want := "db\t4\ndb.pool\t2\nhttp\t3\n*\t1\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestPrintCommand_NoConfig(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")

	out, err := runCommand(t, CreatePrintCommand(), &AppContext{})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if want := "*\t0\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestPrintCommand_AsConfig(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")
	path := writeConfig(t, sampleConfig)

	out, err := runCommand(t, CreatePrintCommand(), &AppContext{ConfigPath: path}, "-config")
	if err != nil {
		t.Fatalf("print -config: %v", err)
	}
	if !strings.Contains(out, "db.pool") || !strings.Contains(out, "default_verbosity = 1") {
		t.Errorf("output = %q", out)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")
	path := writeConfig(t, sampleConfig)

	out, err := runCommand(t, CreateCheckCommand(), &AppContext{ConfigPath: path}, "-level", "3", "db.pool.conn", "db.x", "other")
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("output = %q, want header and 3 rows", out)
	}

	tests := []struct {
		line      string
		name      string
		effective string
		emit      string
	}{
		{lines[1], "db.pool.conn", "2", "no"},
		{lines[2], "db.x", "4", "yes"},
		{lines[3], "other", "1", "no"},
	}
	for _, tt := range tests {
		fields := strings.Fields(tt.line)
		if len(fields) != 5 {
			t.Errorf("row %q has %d fields", tt.line, len(fields))
			continue
		}
		if fields[0] != tt.name || fields[2] != tt.effective || !strings.Contains(fields[4], tt.emit) {
			t.Errorf("row = %q, want %s effective %s emit %s", tt.line, tt.name, tt.effective, tt.emit)
		}
	}
}

func TestCheckCommand_Errors(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")

	if _, err := runCommand(t, CreateCheckCommand(), &AppContext{}); err == nil {
		t.Error("check without names succeeded")
	}
	if _, err := runCommand(t, CreateCheckCommand(), &AppContext{}, "bad name"); err == nil {
		t.Error("check with whitespace name succeeded")
	}
	if _, err := runCommand(t, CreateCheckCommand(), &AppContext{ConfigPath: "/non/existent.toml"}, "a"); err == nil {
		t.Error("check with missing config succeeded")
	}
}

func TestLoadAndValidateConfigOrFail_Invalid(t *testing.T) {
	path := writeConfig(t, "[trace]\ncolor = \"rainbow\"\n")

	if _, err := loadAndValidateConfigOrFail(path); err == nil {
		t.Error("invalid configuration accepted")
	}
}

func TestNewRuntime_BadEnv(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "nonsense")

	if _, err := newRuntime(config.DefaultConfig()); err == nil {
		t.Error("newRuntime accepted a malformed environment spec")
	}
}

func TestRunStress(t *testing.T) {
	reg := verbosity.New()
	tr := trace.New(trace.NewGate(reg), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res, err := RunStress(ctx, reg, tr, 3, 4)
	if err != nil {
		t.Fatalf("RunStress: %v", err)
	}
	if res.Reads == 0 || res.Writes == 0 {
		t.Errorf("result = %+v, want reads and writes", res)
	}
	if res.Generation == 0 {
		t.Error("generation did not advance")
	}
}

func TestStressCommand(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")

	out, err := runCommand(t, CreateStressCommand(), &AppContext{}, "-workers", "2", "-readers", "2", "-duration", "100ms")
	if err != nil {
		t.Fatalf("stress: %v", err)
	}
	if !strings.Contains(out, "reads\t") || !strings.Contains(out, "generation\t") {
		t.Errorf("output = %q", out)
	}

	if _, err := runCommand(t, CreateStressCommand(), &AppContext{}, "-workers", "0"); err == nil {
		t.Error("stress with zero workers succeeded")
	}
}

func TestServeCommand_Reload(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "env.only=9")
	path := writeConfig(t, sampleConfig)

	cmd := &ServeCommand{}
	if err := cmd.Init([]string{"-bind", "127.0.0.1:0"}, &AppContext{ConfigPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer cmd.rt.close()
	reg := cmd.rt.registry

	if got := reg.Get("db.pool.conn"); got != 2 {
		t.Fatalf("Get(db.pool.conn) = %d, want 2", got)
	}

	reloaded, err := cmd.reload(false)
	if err != nil || reloaded {
		t.Fatalf("reload of unchanged file = %v, %v", reloaded, err)
	}

	// Runtime change, then an edited file: the file wins, env stays on top
	reg.Set("runtime", 5)
	if err := os.WriteFile(path, []byte(sampleConfig+"\n[[component]]\nname = \"cache\"\nverbosity = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded, err = cmd.reload(false)
	if err != nil || !reloaded {
		t.Fatalf("reload of edited file = %v, %v", reloaded, err)
	}

	tests := []struct {
		name string
		want int
	}{
		{"cache.lru", 7},
		{"runtime", 1},
		{"env.only", 9},
		{"db", 4},
	}
	for _, tt := range tests {
		if got := reg.Get(tt.name); got != tt.want {
			t.Errorf("Get(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestServeCommand_ReloadTracksAppliedConfig(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")
	path := writeConfig(t, sampleConfig)

	cmd := &ServeCommand{}
	if err := cmd.Init(nil, &AppContext{ConfigPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer cmd.rt.close()

	updated := strings.Replace(sampleConfig, "default_verbosity = 1", "default_verbosity = 6\nmax_level = 3", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.reload(false); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if cmd.cfg.Trace.DefaultVerbosity != 6 || cmd.cfg.Trace.MaxLevel != 3 {
		t.Errorf("applied config = %+v, want the reloaded trace section", cmd.cfg.Trace)
	}
	reg := cmd.rt.registry
	if got := reg.InitialVerbosity(); got != 6 {
		t.Errorf("InitialVerbosity() = %d, want 6", got)
	}
	reg.Reset()
	if got := reg.Get("other"); got != 6 {
		t.Errorf("Get(other) after Reset = %d, want 6", got)
	}
}

func TestServeCommand_ReloadKeepsStateOnInvalidFile(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")
	path := writeConfig(t, sampleConfig)

	cmd := &ServeCommand{}
	if err := cmd.Init(nil, &AppContext{ConfigPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer cmd.rt.close()
	before := cmd.rt.registry.Generation()

	if err := os.WriteFile(path, []byte("[trace]\ncolor = \"rainbow\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := cmd.reload(true); err == nil {
		t.Fatal("reload accepted an invalid file")
	}
	if cmd.rt.registry.Generation() != before {
		t.Error("registry changed after a failed reload")
	}
}

func TestServeCommand_ReloadSwitchesOutput(t *testing.T) {
	t.Setenv(config.EnvVerbosity, "")
	path := writeConfig(t, sampleConfig)

	cmd := &ServeCommand{}
	if err := cmd.Init(nil, &AppContext{ConfigPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer cmd.rt.close()

	logPath := filepath.Join(t.TempDir(), "trace.log")
	updated := strings.Replace(sampleConfig, `output = "stdout"`, `output = "`+logPath+`"`, 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.reload(false); err != nil {
		t.Fatalf("reload: %v", err)
	}

	cmd.rt.tracer.Printf("db", 1, "to file")
	cmd.rt.close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("trace log = %q", data)
	}
}
