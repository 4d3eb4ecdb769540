package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/chat-cli/internal/app"
	"github.com/doeshing/chat-cli/internal/application/doctor"
	"github.com/doeshing/chat-cli/internal/application/pipeline"
	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/infrastructure/config"
	"github.com/doeshing/chat-cli/internal/infrastructure/history"
	"github.com/doeshing/chat-cli/internal/pkg/logger"
	"github.com/doeshing/chat-cli/internal/ports"
)

type stubConfigProvider struct {
	cfg domain.Config
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, nil
}

type stubProviderFactory struct {
	provider ports.Provider
}

func (s stubProviderFactory) ForModel(domain.ModelDefinition) (ports.Provider, error) {
	return s.provider, nil
}

type stubProvider struct {
	replies []string
}

func (s *stubProvider) Name() string                  { return "stub" }
func (s *stubProvider) Model() domain.ModelDefinition { return domain.ModelDefinition{Name: "stub"} }
func (s *stubProvider) Complete(context.Context, ports.ProviderRequest) (ports.ProviderResponse, error) {
	if len(s.replies) == 0 {
		return ports.ProviderResponse{}, errors.New("no scripted reply")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return ports.ProviderResponse{Text: reply}, nil
}

type stubExecutor struct {
	commands []string
	result   domain.ExecutionResult
	err      error
}

func (s *stubExecutor) Execute(_ context.Context, command string) (domain.ExecutionResult, error) {
	s.commands = append(s.commands, command)
	return s.result, s.err
}

func verdictJSON(safe, description, command string) string {
	return `{"safe": "` + safe + `", "description": "` + description + `", "command": "` + command + `"}`
}

type testEnv struct {
	container *app.Container
	executor  *stubExecutor
}

func newTestEnv(t *testing.T, replies ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := domain.Config{
		ConfigFormatVersion: "1",
		Preferences:         domain.Preferences{DefaultModel: "mini", TargetOS: "linux"},
		Models:              []domain.ModelDefinition{{Name: "mini", ModelID: "gpt-4o-mini"}},
	}
	exec := &stubExecutor{result: domain.ExecutionResult{Stdout: "file.txt\n"}}
	provider := stubConfigProvider{cfg: cfg}
	loader := config.NewFileLoader(filepath.Join(dir, "config.yaml"))

	return &testEnv{
		executor: exec,
		container: &app.Container{
			PipelineService: &pipeline.Service{
				ConfigProvider:  provider,
				ProviderFactory: stubProviderFactory{provider: &stubProvider{replies: replies}},
				Executor:        exec,
				Logger:          logger.NewStd(false),
			},
			DoctorService: &doctor.Service{
				ConfigProvider: provider,
				LookPath:       func(file string) (string, error) { return "/bin/sh", nil },
			},
			ConfigProvider: provider,
			ConfigLoader:   loader,
			HistoryStore:   history.NewSQLiteStore(filepath.Join(dir, "history.db")),
			Logger:         logger.NewStd(false),
			Config:         cfg,
		},
	}
}

func (e *testEnv) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCommand(e.container)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCmdReturnsCloser(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.yaml"))
	t.Setenv("HOME", dir)

	root, closeFn, err := NewRootCmd(context.Background(), Options{})
	if err != nil {
		t.Fatalf("NewRootCmd() error = %v", err)
	}
	if root == nil || closeFn == nil {
		t.Fatal("expected a root command and a close func")
	}
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}
}

func TestExecSafeCommand(t *testing.T) {
	env := newTestEnv(t, "ls", verdictJSON("yes", "lists directory contents", "ls"))

	stdout, _, err := env.run("exec", "list", "files", "in", "this", "folder")
	if err != nil {
		t.Fatalf("exec error = %v", err)
	}
	if !strings.Contains(stdout, "Executing command: ls") {
		t.Errorf("stdout missing execution line:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "file.txt\n") {
		t.Errorf("stdout missing command output:\n%s", stdout)
	}
	if len(env.executor.commands) != 1 || env.executor.commands[0] != "ls" {
		t.Errorf("executed = %v", env.executor.commands)
	}
}

func TestExecRefusesUnsafeCommand(t *testing.T) {
	env := newTestEnv(t, "rm -rf *", verdictJSON("no", "irreversibly deletes files", "rm -rf *"))

	stdout, stderr, err := env.run("exec", "delete", "all", "files")
	if err != nil {
		t.Fatalf("refusal must not be an error, got %v", err)
	}
	if !strings.Contains(stderr, refusalMessage) {
		t.Errorf("stderr missing refusal:\n%s", stderr)
	}
	if !strings.Contains(stdout, "Command: rm -rf *") || !strings.Contains(stdout, "Description: irreversibly deletes files") {
		t.Errorf("stdout missing verdict:\n%s", stdout)
	}
	if strings.Contains(stdout, "Executing command") || len(env.executor.commands) != 0 {
		t.Error("refused command must not run")
	}
}

func TestExecUnsafeOverride(t *testing.T) {
	env := newTestEnv(t, "rm -rf *", verdictJSON("no", "irreversibly deletes files", "rm -rf *"))

	stdout, _, err := env.run("exec", "--unsafe", "delete", "all", "files")
	if err != nil {
		t.Fatalf("exec error = %v", err)
	}
	if !strings.Contains(stdout, "Executing command: rm -rf *") {
		t.Errorf("stdout:\n%s", stdout)
	}
	if len(env.executor.commands) != 1 {
		t.Errorf("executed = %v", env.executor.commands)
	}
}

func TestExecParseFailure(t *testing.T) {
	env := newTestEnv(t, "ls", "I think it is fine")

	_, _, err := env.run("exec", "list")
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if len(env.executor.commands) != 0 {
		t.Error("nothing may run after a parse failure")
	}
}

func TestExecDryRun(t *testing.T) {
	env := newTestEnv(t, "ls", verdictJSON("yes", "lists directory contents", "ls"))

	stdout, stderr, err := env.run("exec", "--dry-run", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Command: ls") || !strings.Contains(stdout, "Safe: yes") {
		t.Errorf("stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "would run") {
		t.Errorf("stderr:\n%s", stderr)
	}
	if len(env.executor.commands) != 0 {
		t.Error("dry run must not execute")
	}
}

func TestExecDivergenceNotice(t *testing.T) {
	env := newTestEnv(t, "ls -l", verdictJSON("yes", "lists files", "ls -la"))

	stdout, stderr, err := env.run("exec", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "restated the command") || !strings.Contains(stderr, "ls -l\n") {
		t.Errorf("stderr missing divergence notice:\n%s", stderr)
	}
	if !strings.Contains(stdout, "Executing command: ls -la") {
		t.Errorf("stdout:\n%s", stdout)
	}
}

func TestExecFailedCommand(t *testing.T) {
	env := newTestEnv(t, "false", verdictJSON("yes", "fails", "false"))
	env.executor.result = domain.ExecutionResult{Stderr: "boom\n", ExitCode: 1}
	env.executor.err = &domain.ExecutionError{Command: "false", ExitCode: 1, Stderr: "boom\n"}

	stdout, _, err := env.run("exec", "fail")
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if strings.Contains(stdout, "boom") {
		t.Errorf("stderr of a failed command is reported through the error, stdout:\n%s", stdout)
	}
}

func TestExecRequiresInstruction(t *testing.T) {
	env := newTestEnv(t)
	if _, _, err := env.run("exec"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestVersionFlagAndCommand(t *testing.T) {
	env := newTestEnv(t)
	stdout, _, err := env.run("version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "chat-cli version 1.0.0\n") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestVersionShort(t *testing.T) {
	env := newTestEnv(t)
	stdout, _, err := env.run("version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "1.0.0\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestConfigInitAndPath(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != env.container.ConfigLoader.Path() {
		t.Errorf("path = %q", stdout)
	}

	if _, _, err := env.run("config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, _, err := env.run("config", "init"); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if stdout, _, err = env.run("config", "init", "--force"); err != nil || !strings.Contains(stdout, "Previous configuration saved") {
		t.Fatalf("config init --force = %q, %v", stdout, err)
	}
}

func TestConfigValidateAndGet(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("config", "validate")
	if err != nil || !strings.Contains(stdout, "Configuration valid") {
		t.Fatalf("validate = %q, %v", stdout, err)
	}

	stdout, _, err = env.run("config", "get", "models.0.model_id")
	if err != nil || strings.TrimSpace(stdout) != "gpt-4o-mini" {
		t.Fatalf("get = %q, %v", stdout, err)
	}

	if _, _, err := env.run("config", "get", "preferences.nope"); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestHistoryListWithoutDatabase(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr, err := env.run("history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "No history recorded yet.") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "History is disabled") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestHistoryRecordsRuns(t *testing.T) {
	env := newTestEnv(t, "ls", verdictJSON("yes", "lists directory contents", "ls"))
	cfg := env.container.Config
	cfg.History.Enabled = true
	env.container.Config = cfg
	env.container.PipelineService.ConfigProvider = stubConfigProvider{cfg: cfg}
	env.container.PipelineService.HistoryStore = env.container.HistoryStore
	t.Cleanup(func() { _ = env.container.Close() })

	if _, _, err := env.run("exec", "list", "files"); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := env.run("history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if !strings.Contains(stdout, "| executed | mini | ls") || !strings.Contains(stdout, "list files") {
		t.Errorf("history list:\n%s", stdout)
	}

	stdout, _, err = env.run("history", "stats")
	if err != nil || !strings.Contains(stdout, "Executed: 1") {
		t.Fatalf("stats = %q, %v", stdout, err)
	}

	dest := filepath.Join(t.TempDir(), "out.jsonl")
	stdout, _, err = env.run("history", "export", dest)
	if err != nil || !strings.Contains(stdout, "Exported 1 record to") {
		t.Fatalf("export = %q, %v", stdout, err)
	}

	if _, _, err := env.run("history", "clear"); err != nil {
		t.Fatal(err)
	}
	stdout, _, _ = env.run("history", "list")
	if !strings.Contains(stdout, "No history recorded yet.") {
		t.Errorf("after clear:\n%s", stdout)
	}
}

func TestHistoryCountsDryRunsSeparately(t *testing.T) {
	env := newTestEnv(t,
		"ls", verdictJSON("yes", "lists directory contents", "ls"),
		"rm -rf *", verdictJSON("no", "irreversibly deletes files", "rm -rf *"))
	cfg := env.container.Config
	cfg.History.Enabled = true
	env.container.Config = cfg
	env.container.PipelineService.ConfigProvider = stubConfigProvider{cfg: cfg}
	env.container.PipelineService.HistoryStore = env.container.HistoryStore
	t.Cleanup(func() { _ = env.container.Close() })

	if _, _, err := env.run("exec", "--dry-run", "list"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.run("exec", "delete", "all", "files"); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := env.run("history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "| previewed | mini | ls") || !strings.Contains(stdout, "| refused | mini | rm -rf *") {
		t.Errorf("history list:\n%s", stdout)
	}

	stdout, _, err = env.run("history", "stats")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Refused: 1\n") || !strings.Contains(stdout, "Previewed: 1\n") {
		t.Errorf("stats:\n%s", stdout)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Setenv(domain.DefaultAPIKeyEnvVar, "sk-test")
	env := newTestEnv(t)

	stdout, _, err := env.run("doctor")
	if err != nil {
		t.Fatalf("doctor error = %v\n%s", err, stdout)
	}
	for _, want := range []string{"[OK] Config file", "[OK] Default model", "[OK] API key", "[OK] Shell", "5 ok, 0 warnings, 0 errors"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %q in:\n%s", want, stdout)
		}
	}
}

func TestDoctorStrictFailsOnWarnings(t *testing.T) {
	t.Setenv(domain.DefaultAPIKeyEnvVar, "sk-test")
	env := newTestEnv(t)
	cfg := env.container.Config
	cfg.History = domain.HistorySettings{Enabled: true, Path: filepath.Join(t.TempDir(), "not-yet", "history.db")}
	env.container.DoctorService.ConfigProvider = stubConfigProvider{cfg: cfg}

	stdout, _, err := env.run("doctor")
	if err != nil {
		t.Fatalf("warnings alone must not fail doctor, got %v", err)
	}
	if !strings.Contains(stdout, "[WARN] History") || !strings.Contains(stdout, "4 ok, 1 warning, 0 errors") {
		t.Errorf("stdout:\n%s", stdout)
	}

	if _, _, err := env.run("doctor", "--strict"); err == nil || !strings.Contains(err.Error(), "warnings") {
		t.Fatalf("expected strict failure, got %v", err)
	}
}

func TestDoctorReportsMissingKey(t *testing.T) {
	t.Setenv(domain.DefaultAPIKeyEnvVar, "")
	env := newTestEnv(t)

	stdout, _, err := env.run("doctor")
	if err == nil {
		t.Fatal("expected failure when the API key is missing")
	}
	if !strings.Contains(stdout, "[ERROR] API key - OPENAI_API_KEY is not set") || !strings.Contains(stdout, "1 error\n") {
		t.Errorf("stdout:\n%s", stdout)
	}
}

func TestModelsList(t *testing.T) {
	env := newTestEnv(t)
	stdout, _, err := env.run("models", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "* mini | openai | gpt-4o-mini | key: OPENAI_API_KEY") {
		t.Errorf("stdout = %q", stdout)
	}
}
