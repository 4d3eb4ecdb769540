// Package pipeline drives a single exec run: translate the instruction, classify
// the resulting command, then execute, refuse or preview it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/chat-cli/internal/application/chain"
	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// Service orchestrates the run lifecycle end-to-end.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	Executor        ports.CommandExecutor
	HistoryStore    ports.HistoryRepository
	Logger          ports.Logger
	Observer        ports.RunObserver
}

// Run processes a single natural-language instruction.
func (s *Service) Run(ctx context.Context, req domain.RunRequest) (resp domain.RunResponse, err error) {
	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Executor == nil || s.Logger == nil {
		return domain.RunResponse{}, errors.New("pipeline.Service dependencies not satisfied")
	}

	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return domain.RunResponse{}, errors.New("instruction is empty")
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.RunResponse{}, fmt.Errorf("load config: %w", err)
	}

	model, err := cfg.ResolveModel(req.ModelOverride)
	if err != nil {
		return domain.RunResponse{}, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = cfg.GetTimeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	provider, err := s.ProviderFactory.ForModel(model)
	if err != nil {
		return domain.RunResponse{}, fmt.Errorf("provider init: %w", err)
	}

	targetOS := req.TargetOS
	if targetOS == "" {
		targetOS = cfg.GetTargetOS()
	}

	resp = domain.RunResponse{
		Instruction: instruction,
		Model:       model.Name,
		TargetOS:    targetOS,
	}

	if cfg.IsHistoryEnabled() && s.HistoryStore != nil {
		started := time.Now()
		defer func() {
			s.saveHistory(context.WithoutCancel(ctx), started, req, resp, err)
		}()
	}

	parser, err := chain.NewVerdictParser()
	if err != nil {
		return resp, err
	}
	translator := &chain.Translator{Provider: provider, TargetOS: targetOS}
	classifier := &chain.Classifier{Provider: provider, Parser: parser}

	s.notify(domain.StageStart, &resp)
	s.Logger.Info("translating instruction", map[string]interface{}{
		"provider": provider.Name(),
		"model":    model.Name,
		"os":       targetOS,
	})

	s.notify(domain.StageTranslating, &resp)
	candidate, err := translator.Translate(ctx, instruction)
	if err != nil {
		return resp, fmt.Errorf("translate: %w", err)
	}
	resp.CandidateCommand = candidate
	s.Logger.Debug("candidate command", map[string]interface{}{"command": candidate})

	s.notify(domain.StageClassifying, &resp)
	verdict, err := classifier.Classify(ctx, candidate)
	if err != nil {
		return resp, fmt.Errorf("classify: %w", err)
	}
	resp.Verdict = verdict
	resp.Permitted = verdict.Permitted(req.Unsafe)
	s.Logger.Debug("safety verdict", map[string]interface{}{
		"safe":        verdict.Safe,
		"description": verdict.Description,
		"command":     verdict.Command,
	})

	if verdict.Command != candidate {
		resp.CommandDiverged = true
		s.Logger.Warn("classifier echoed a different command", map[string]interface{}{
			"candidate": candidate,
			"echoed":    verdict.Command,
		})
	}

	switch {
	case req.DryRun:
		resp.Outcome = domain.StagePreviewed
		s.notify(domain.StagePreviewed, &resp)
	case !resp.Permitted:
		s.Logger.Info("command refused", map[string]interface{}{"safe": verdict.Safe})
		resp.Outcome = domain.StageRefused
		s.notify(domain.StageRefused, &resp)
	default:
		if strings.TrimSpace(verdict.Command) == "" {
			return resp, fmt.Errorf("classify: %w", domain.ErrEmptyCommand)
		}
		if req.Unsafe && !verdict.IsSafe() {
			s.Logger.Warn("executing command judged unsafe", map[string]interface{}{"command": verdict.Command})
		}
		resp.Outcome = domain.StageExecuting
		s.notify(domain.StageExecuting, &resp)
		result, execErr := s.Executor.Execute(ctx, verdict.Command)
		resp.Executed = true
		resp.ExecutionResult = &result
		if execErr != nil {
			s.Logger.Error("command failed", execErr, map[string]interface{}{"exit_code": result.ExitCode})
			return resp, execErr
		}
		s.Logger.Info("command finished", map[string]interface{}{"duration_ms": result.DurationMS})
	}

	s.notify(domain.StageEnd, &resp)
	return resp, nil
}

func (s *Service) notify(stage domain.Stage, resp *domain.RunResponse) {
	resp.Stage = stage
	if s.Observer != nil {
		s.Observer.OnStage(stage, *resp)
	}
}

func (s *Service) saveHistory(ctx context.Context, started time.Time, req domain.RunRequest, resp domain.RunResponse, runErr error) {
	record := domain.HistoryRecord{
		ID:               uuid.NewString(),
		Timestamp:        started,
		Instruction:      resp.Instruction,
		CandidateCommand: resp.CandidateCommand,
		Command:          resp.Verdict.Command,
		Safe:             resp.Verdict.Safe,
		Description:      resp.Verdict.Description,
		Model:            resp.Model,
		Override:         req.Unsafe,
		Executed:         resp.Executed,
		DryRun:           resp.Outcome == domain.StagePreviewed,
	}
	if resp.ExecutionResult != nil {
		record.ExitCode = resp.ExecutionResult.ExitCode
		record.DurationMS = resp.ExecutionResult.DurationMS
	}
	if runErr != nil {
		record.Error = runErr.Error()
	}

	if err := s.HistoryStore.Save(ctx, record); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}
