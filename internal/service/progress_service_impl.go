package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sophia/internal/app"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/repository"
)

type progressService struct {
	progress repository.ProgressRepo
	kb       *knowledge.Store
	observer UseCaseObserver
	now      func() time.Time
}

func NewProgressService(progress repository.ProgressRepo, kb *knowledge.Store, observers ...UseCaseObserver) ProgressService {
	return &progressService{
		progress: progress,
		kb:       kb,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetProgress returns the session's progress, starting it at step 1 on
// first use.
func (s *progressService) GetProgress(ctx context.Context, req app.ProgressRequest) (*app.ProgressView, error) {
	proc, err := s.process(req.ProcessID)
	if err != nil {
		return nil, err
	}
	p, err := s.load(ctx, req.SessionID, proc.ID)
	if err != nil {
		return nil, err
	}
	return s.view(p, proc), nil
}

func (s *progressService) MarkStepComplete(ctx context.Context, req app.ProgressRequest) (view *app.ProgressView, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, UseCaseMarkStepComplete, start, err, map[string]any{"session_id": req.SessionID})
	}()
	return s.update(ctx, req, func(p *domain.UserProgress, proc knowledge.Process) {
		p.Complete(len(proc.Steps))
	})
}

func (s *progressService) ResetProgress(ctx context.Context, req app.ProgressRequest) (view *app.ProgressView, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, UseCaseResetProgress, start, err, map[string]any{"session_id": req.SessionID})
	}()
	return s.update(ctx, req, func(p *domain.UserProgress, _ knowledge.Process) {
		p.Reset()
	})
}

func (s *progressService) update(ctx context.Context, req app.ProgressRequest, apply func(*domain.UserProgress, knowledge.Process)) (*app.ProgressView, error) {
	proc, err := s.process(req.ProcessID)
	if err != nil {
		return nil, err
	}
	p, err := s.load(ctx, req.SessionID, proc.ID)
	if err != nil {
		return nil, err
	}
	apply(p, proc)
	p.UpdatedAt = s.now()
	if err := s.progress.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return s.view(p, proc), nil
}

func (s *progressService) process(id string) (knowledge.Process, error) {
	if id == "" {
		return s.kb.DefaultProcess(), nil
	}
	proc, ok := s.kb.Process(id)
	if !ok {
		return knowledge.Process{}, fmt.Errorf("%w: %s", ErrUnknownProcess, id)
	}
	return proc, nil
}

func (s *progressService) load(ctx context.Context, sessionID, processID string) (*domain.UserProgress, error) {
	p, err := s.progress.Get(ctx, sessionID, processID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	p = &domain.UserProgress{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		ProcessID:      processID,
		CurrentStep:    1,
		CompletedSteps: []int{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.progress.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *progressService) view(p *domain.UserProgress, proc knowledge.Process) *app.ProgressView {
	step, ok := proc.Step(p.CurrentStep)
	if !ok {
		step = knowledge.ProcessStep{
			Number:       p.CurrentStep,
			StepGuidance: s.kb.StepGuidance(proc.ID, p.CurrentStep),
		}
	}
	completed := p.CompletedSteps
	if completed == nil {
		completed = []int{}
	}
	return &app.ProgressView{
		SessionID:      p.SessionID,
		ProcessID:      proc.ID,
		ProcessName:    proc.Name,
		CurrentStep:    p.CurrentStep,
		TotalSteps:     len(proc.Steps),
		CompletedSteps: completed,
		Finished:       p.Finished(len(proc.Steps)),
		Step:           step,
		Notes:          p.Notes,
	}
}
