package storyboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service implements the duration update protocol. Every update operation
// loads the project, validates the new value, mutates the model, re-derives
// ancestor durations, and persists the whole project in a single store
// write. The service never retries; failures surface as typed errors and the
// caller decides.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateProject validates and persists a new project.
func (s *Service) CreateProject(ctx context.Context, p *Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, p); err != nil {
		return &PersistenceError{Project: p.Name, Err: err}
	}
	if s.logger != nil {
		s.logger.Info("project created", "project", p.Name, "scenes", len(p.Scenes), "shots", p.ShotCount())
	}
	return nil
}

// GetProject loads a project or returns NotFoundError.
func (s *Service) GetProject(ctx context.Context, name string) (*Project, error) {
	p, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %q: %w", name, err)
	}
	if p == nil {
		return nil, &NotFoundError{Kind: "project", Project: name}
	}
	return p, nil
}

// ListProjects returns the names of all persisted projects.
func (s *Service) ListProjects(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// DeleteProject removes a project from the store.
func (s *Service) DeleteProject(ctx context.Context, name string) error {
	if _, err := s.GetProject(ctx, name); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, name); err != nil {
		return &PersistenceError{Project: name, Err: err}
	}
	if s.logger != nil {
		s.logger.Info("project deleted", "project", name)
	}
	return nil
}

// UpdateShotDuration replaces one shot's duration with a measured value,
// re-derives the owning scene's duration, and persists. Idempotent.
func (s *Service) UpdateShotDuration(ctx context.Context, name string, sceneNum, shotNum int, seconds float64) (*Project, error) {
	if seconds < MinShotDuration || seconds > MaxShotDuration {
		return nil, &ValidationError{Field: "shot.duration", Value: seconds, Reason: "must be between 0.1 and 60.0 seconds"}
	}

	p, err := s.GetProject(ctx, name)
	if err != nil {
		return nil, err
	}

	scene := p.SceneByNumber(sceneNum)
	if scene == nil {
		return nil, &NotFoundError{Kind: "scene", Project: name, Scene: sceneNum}
	}
	shot := scene.ShotByNumber(shotNum)
	if shot == nil {
		return nil, &NotFoundError{Kind: "shot", Project: name, Scene: sceneNum, Shot: shotNum}
	}

	shot.Duration = seconds
	scene.Duration = scene.DerivedDurationSeconds()

	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("shot duration updated",
			"project", name, "scene", sceneNum, "shot", shotNum,
			"seconds", seconds, "scene_seconds", scene.Duration)
	}
	return p, nil
}

// UpdateSceneDuration replaces a scene's duration directly, bypassing
// shot-sum derivation. Used when only an aggregate measurement is available;
// the stored value can diverge from the shot sum until the next shot update.
func (s *Service) UpdateSceneDuration(ctx context.Context, name string, sceneNum int, seconds float64) (*Project, error) {
	if seconds < MinSceneDuration {
		return nil, &ValidationError{Field: "scene.duration", Value: seconds, Reason: "must be at least 0.1 seconds"}
	}

	p, err := s.GetProject(ctx, name)
	if err != nil {
		return nil, err
	}

	scene := p.SceneByNumber(sceneNum)
	if scene == nil {
		return nil, &NotFoundError{Kind: "scene", Project: name, Scene: sceneNum}
	}

	scene.Duration = seconds

	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("scene duration updated", "project", name, "scene", sceneNum, "seconds", seconds)
	}
	return p, nil
}

// UpdateTransitionDurations overwrites every shot's and every scene's
// transition gap uniformly and persists once.
func (s *Service) UpdateTransitionDurations(ctx context.Context, name string, shotSeconds, sceneSeconds float64) (*Project, error) {
	if shotSeconds < MinTransition || shotSeconds > MaxTransition {
		return nil, &ValidationError{Field: "shot.transition_duration", Value: shotSeconds, Reason: "must be between 0.0 and 5.0 seconds"}
	}
	if sceneSeconds < MinTransition || sceneSeconds > MaxTransition {
		return nil, &ValidationError{Field: "scene.transition_duration", Value: sceneSeconds, Reason: "must be between 0.0 and 5.0 seconds"}
	}

	p, err := s.GetProject(ctx, name)
	if err != nil {
		return nil, err
	}

	for si := range p.Scenes {
		scene := &p.Scenes[si]
		scene.TransitionDuration = sceneSeconds
		for hi := range scene.Shots {
			scene.Shots[hi].TransitionDuration = shotSeconds
		}
		scene.Duration = scene.DerivedDurationSeconds()
	}

	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("transition durations updated",
			"project", name, "shot_seconds", shotSeconds, "scene_seconds", sceneSeconds)
	}
	return p, nil
}

// Measurement is one measured shot duration in a batch.
type Measurement struct {
	Scene   int
	Shot    int
	Seconds float64
}

// MeasurementResult reports the outcome of one batch item.
type MeasurementResult struct {
	Scene int
	Shot  int
	Err   error
}

// ApplyMeasurements applies every measurement independently. A failed item,
// including a failed persistence write, never prevents the remaining items
// from being attempted; callers get one result per input item in order.
func (s *Service) ApplyMeasurements(ctx context.Context, name string, items []Measurement) []MeasurementResult {
	results := make([]MeasurementResult, 0, len(items))
	for _, item := range items {
		_, err := s.UpdateShotDuration(ctx, name, item.Scene, item.Shot, item.Seconds)
		if err != nil && s.logger != nil {
			s.logger.Warn("measurement not applied",
				"project", name, "scene", item.Scene, "shot", item.Shot, "error", err)
		}
		results = append(results, MeasurementResult{Scene: item.Scene, Shot: item.Shot, Err: err})
	}
	return results
}

func (s *Service) persist(ctx context.Context, p *Project) error {
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, p); err != nil {
		return &PersistenceError{Project: p.Name, Err: err}
	}
	return nil
}
