package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	// ResolveShell maps execution.shell to the shell commands will run with.
	ResolveShell func(configured string) string
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// Run executes checks and returns a report. A config that cannot be loaded
// ends the report early and is also returned as the error.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s, %d model(s)", cfg.ConfigFormatVersion, len(cfg.Models))))

	model, err := cfg.GetDefaultModel()
	if err != nil {
		checks = append(checks, fail("Default model", err.Error()))
	} else {
		checks = append(checks, ok("Default model", fmt.Sprintf("%s (%s, %s)", model.Name, model.Kind(), model.ModelID)))
		checks = append(checks, apiKeyCheck(model))
	}

	checks = append(checks, s.shellCheck(cfg.Execution.Shell))
	checks = append(checks, historyCheck(cfg.History))

	return domain.HealthReport{Checks: checks}, nil
}

func apiKeyCheck(model domain.ModelDefinition) domain.HealthCheck {
	envVar := model.KeyEnvVar()
	if os.Getenv(envVar) != "" {
		return ok("API key", fmt.Sprintf("%s is set", envVar))
	}
	if model.Kind() == domain.ProviderKindOllama {
		return ok("API key", "not required for ollama")
	}
	return fail("API key", fmt.Sprintf("%s is not set", envVar))
}

func (s *Service) shellCheck(configured string) domain.HealthCheck {
	shell := configured
	if s.ResolveShell != nil {
		shell = s.ResolveShell(configured)
	}
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(shell)
	if err != nil {
		return fail("Shell", fmt.Sprintf("%s not found: %v", shell, err))
	}
	return ok("Shell", path)
}

func historyCheck(history domain.HistorySettings) domain.HealthCheck {
	if !history.Enabled {
		return ok("History", "disabled")
	}
	dir := filepath.Dir(history.Path)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return warn("History", fmt.Sprintf("%s will be created on first run", dir))
	}
	if err != nil {
		return fail("History", err.Error())
	}
	if !info.IsDir() {
		return fail("History", fmt.Sprintf("%s is not a directory", dir))
	}
	return ok("History", history.Path)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
