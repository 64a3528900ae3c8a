package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/textstudio/pkg/cli"
	"mercator-hq/textstudio/pkg/journal"
	"mercator-hq/textstudio/pkg/providers/mock"
	"mercator-hq/textstudio/pkg/studio"
)

// writeTestConfig writes a config using the instant mock provider and
// stores everything under a temp directory.
func writeTestConfig(t *testing.T, journalEnabled bool) string {
	t.Helper()
	dir := t.TempDir()

	content := `provider:
  provider: mock
  mock_delay: 0s
storage:
  backend: sqlite
  path: ` + filepath.Join(dir, "data", "settings.db") + `
journal:
  enabled: ` + map[bool]string{true: "true", false: "false"}[journalEnabled] + `
  backend: sqlite
  path: ` + filepath.Join(dir, "data", "journal.db") + `
telemetry:
  logging:
    level: error
    format: text
`
	path := filepath.Join(dir, "textstudio.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
// Flag variables are reset first, since cobra keeps them between runs.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	verbose = false
	outputFmt = "text"
	formatStyle = studio.DefaultFormatStyle
	generateStyle = studio.DefaultGenerateStyle
	generateLang = studio.DefaultLanguage
	generateCustom = ""
	chatFeature = "format"
	chatStyle = ""
	providersToken = ""
	configInitForce = false
	journalLimit = 20
	journalProvider = ""
	journalStatus = ""
	journalSince = 0

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestFormatCommand(t *testing.T) {
	cfg := writeTestConfig(t, false)

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "from arguments", args: []string{"format", "-c", cfg, "--style", "blog", "hello", "world"}},
		{name: "from stdin", stdin: "notes from the meetup\n", args: []string{"format", "-c", cfg}},
		{name: "dash reads stdin", stdin: "notes", args: []string{"format", "-c", cfg, "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("format failed: %v", err)
			}
			if strings.TrimSpace(out) != strings.TrimSpace(mock.FormattingSample) {
				t.Errorf("output = %q, want the formatting sample", out)
			}
		})
	}
}

func TestFormatCommandEmptyInput(t *testing.T) {
	cfg := writeTestConfig(t, false)

	_, err := execute(t, "   \n", "format", "-c", cfg)
	if !errors.Is(err, studio.ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitError {
		t.Errorf("exit code = %d, want %d", code, cli.ExitError)
	}
}

func TestGenerateCommandJSON(t *testing.T) {
	cfg := writeTestConfig(t, false)

	out, err := execute(t, "", "generate", "-c", cfg, "-o", "json", "--language", "english", "lighthouse, storm")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	var result struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.Role != "assistant" {
		t.Errorf("role = %q, want assistant", result.Role)
	}
	if result.Content != mock.GenerationSample {
		t.Errorf("content = %q, want the generation sample", result.Content)
	}
}

func TestChatCommand(t *testing.T) {
	cfg := writeTestConfig(t, false)

	out, err := execute(t, "first draft\n\n/reset\nsecond draft\n/quit\nignored\n", "chat", "-c", cfg)
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	if got := strings.Count(out, "# Formatted Text"); got != 2 {
		t.Errorf("got %d replies, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "Conversation cleared.") {
		t.Errorf("output missing reset confirmation:\n%s", out)
	}
}

func TestChatCommandUnknownFeature(t *testing.T) {
	cfg := writeTestConfig(t, false)

	_, err := execute(t, "", "chat", "-c", cfg, "--feature", "translate")
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("exit code = %d, want %d (err = %v)", code, cli.ExitConfig, err)
	}
}

func TestConfigSetPersists(t *testing.T) {
	cfg := writeTestConfig(t, false)

	out, err := execute(t, "", "config", "set", "-c", cfg, "provider=openai", "token=sk-test-1234567890", "model=gpt-4o")
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "✓") {
		t.Errorf("config set output missing success mark:\n%s", out)
	}

	out, err = execute(t, "", "config", "show", "-c", cfg, "-o", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	var view configView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if view.Provider != "openai" || view.Model != "gpt-4o" {
		t.Errorf("config = %+v, want openai/gpt-4o", view)
	}
	if view.Token != "sk-t****7890" {
		t.Errorf("token = %q, want masked token", view.Token)
	}
}

func TestConfigSetRejectsInvalidInput(t *testing.T) {
	cfg := writeTestConfig(t, false)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing equals", args: []string{"provider"}},
		{name: "unknown key", args: []string{"color=blue"}},
		{name: "unknown provider", args: []string{"provider=bard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"config", "set", "-c", cfg}, tt.args...)
			_, err := execute(t, "", args...)
			if code := cli.ExitCode(err); code != cli.ExitConfig {
				t.Errorf("exit code = %d, want %d (err = %v)", code, cli.ExitConfig, err)
			}
		})
	}
}

func TestConfigTest(t *testing.T) {
	cfg := writeTestConfig(t, false)

	if _, err := execute(t, "", "config", "test", "-c", cfg); err != nil {
		t.Errorf("mock config test failed: %v", err)
	}

	_, err := execute(t, "", "config", "test", "-c", cfg, "provider=anthropic")
	if err == nil {
		t.Fatal("expected anthropic without token to fail")
	}
	if !strings.Contains(err.Error(), "requires an API token") {
		t.Errorf("error = %v, want missing token message", err)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "textstudio.toml")

	if _, err := execute(t, "", "config", "init", "-c", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := execute(t, "", "config", "init", "-c", path); cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("second init error = %v, want config error", err)
	}
	if _, err := execute(t, "", "config", "init", "-c", path, "--force"); err != nil {
		t.Errorf("forced init failed: %v", err)
	}
}

func TestProvidersList(t *testing.T) {
	cfg := writeTestConfig(t, false)

	out, err := execute(t, "", "providers", "list", "-c", cfg, "-o", "json")
	if err != nil {
		t.Fatalf("providers list failed: %v", err)
	}

	var rows []map[string]string
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d providers, want 6", len(rows))
	}
	if rows[0]["id"] != "mock" || rows[0]["active"] != "*" {
		t.Errorf("first row = %v, want active mock", rows[0])
	}
}

func TestProvidersModelsStatic(t *testing.T) {
	cfg := writeTestConfig(t, false)

	out, err := execute(t, "", "providers", "models", "-c", cfg, "openai")
	if err != nil {
		t.Fatalf("providers models failed: %v", err)
	}
	if !strings.Contains(out, "gpt-4-turbo") {
		t.Errorf("output missing gpt-4-turbo:\n%s", out)
	}

	if _, err := execute(t, "", "providers", "models", "-c", cfg, "bard"); cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("unknown provider error = %v, want config error", err)
	}
}

func TestJournalRecordsCompletions(t *testing.T) {
	cfg := writeTestConfig(t, true)

	if _, err := execute(t, "some text", "format", "-c", cfg); err != nil {
		t.Fatalf("format failed: %v", err)
	}

	out, err := execute(t, "", "journal", "list", "-c", cfg, "-o", "json")
	if err != nil {
		t.Fatalf("journal list failed: %v", err)
	}

	var records []journal.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Provider != "mock" || records[0].Status != journal.StatusSuccess {
		t.Errorf("record = %+v, want successful mock completion", records[0])
	}

	out, err = execute(t, "", "journal", "prune", "-c", cfg)
	if err != nil {
		t.Fatalf("journal prune failed: %v", err)
	}
	if !strings.Contains(out, "Deleted 0 journal records") {
		t.Errorf("prune output = %q", out)
	}
}

func TestJournalDisabled(t *testing.T) {
	cfg := writeTestConfig(t, false)

	_, err := execute(t, "", "journal", "list", "-c", cfg)
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("exit code = %d, want %d (err = %v)", code, cli.ExitConfig, err)
	}
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "args joined", args: []string{"a", "b"}, want: "a b"},
		{name: "stdin trimmed", stdin: "  hi\n", want: "hi"},
		{name: "dash", stdin: "piped", args: []string{"-"}, want: "piped"},
		{name: "empty stdin", stdin: "\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(strings.NewReader(tt.stdin), tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("readInput() = %q, want %q", got, tt.want)
			}
		})
	}
}
