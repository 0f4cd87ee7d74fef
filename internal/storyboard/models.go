// Package storyboard holds the project duration model and the duration
// update protocol: projects made of ordered scenes, scenes made of ordered
// shots, each shot carrying a narrated duration and a post-shot transition
// gap. All durations are seconds; timeline math happens downstream in
// milliseconds.
package storyboard

import (
	"strings"
	"time"
)

const (
	MinShotDuration  = 0.1
	MaxShotDuration  = 60.0
	MinSceneDuration = 0.1
	MinTransition    = 0.0
	MaxTransition    = 5.0

	DefaultShotTransition  = 0.5
	DefaultSceneTransition = 1.0
	DefaultFPS             = 30
)

// Shot is the smallest narration/visual unit. TransitionDuration is the gap
// inserted after this shot and is meaningless for the last shot in a scene.
type Shot struct {
	Number             int     `json:"number" yaml:"number"`
	Narration          string  `json:"narration" yaml:"narration"`
	Description        string  `json:"description,omitempty" yaml:"description,omitempty"`
	MediaRef           string  `json:"media_ref,omitempty" yaml:"media_ref,omitempty"`
	Duration           float64 `json:"duration" yaml:"duration"`
	TransitionDuration float64 `json:"transition_duration" yaml:"transition_duration"`
}

// Scene is an ordered, non-empty group of shots. Duration is normally derived
// from the shots; UpdateSceneDuration may overwrite it with an aggregate
// measurement, in which case it can diverge from DerivedDurationSeconds until
// the next shot-level update.
type Scene struct {
	Number             int     `json:"number" yaml:"number"`
	Title              string  `json:"title" yaml:"title"`
	Purpose            string  `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	Duration           float64 `json:"duration" yaml:"duration"`
	TransitionDuration float64 `json:"transition_duration" yaml:"transition_duration"`
	Shots              []Shot  `json:"shots" yaml:"shots"`
}

// Project is the root of the duration model plus global settings.
type Project struct {
	Name      string    `json:"name" yaml:"name"`
	Title     string    `json:"title" yaml:"title"`
	FPS       int       `json:"fps" yaml:"fps"`
	Scenes    []Scene   `json:"scenes" yaml:"scenes"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewShot validates and builds a shot with the default transition gap.
func NewShot(number int, narration string, duration float64) (*Shot, error) {
	s := &Shot{
		Number:             number,
		Narration:          narration,
		Duration:           duration,
		TransitionDuration: DefaultShotTransition,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewScene validates and builds a scene. Titles are stored uppercase.
func NewScene(number int, title, purpose string, shots []Shot) (*Scene, error) {
	sc := &Scene{
		Number:             number,
		Title:              strings.ToUpper(strings.TrimSpace(title)),
		Purpose:            purpose,
		TransitionDuration: DefaultSceneTransition,
		Shots:              shots,
	}
	sc.Duration = sc.DerivedDurationSeconds()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// NewProject validates and builds a project.
func NewProject(name, title string, fps int, scenes []Scene) (*Project, error) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	now := time.Now().UTC()
	p := &Project{
		Name:      name,
		Title:     title,
		FPS:       fps,
		Scenes:    scenes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Shot) Validate() error {
	if s.Number < 1 {
		return &ValidationError{Field: "shot.number", Value: s.Number, Reason: "must be 1 or greater"}
	}
	if s.Duration < MinShotDuration || s.Duration > MaxShotDuration {
		return &ValidationError{Field: "shot.duration", Value: s.Duration, Reason: "must be between 0.1 and 60.0 seconds"}
	}
	if s.TransitionDuration < MinTransition || s.TransitionDuration > MaxTransition {
		return &ValidationError{Field: "shot.transition_duration", Value: s.TransitionDuration, Reason: "must be between 0.0 and 5.0 seconds"}
	}
	return nil
}

func (sc *Scene) Validate() error {
	if sc.Number < 1 {
		return &ValidationError{Field: "scene.number", Value: sc.Number, Reason: "must be 1 or greater"}
	}
	if sc.Duration < MinSceneDuration {
		return &ValidationError{Field: "scene.duration", Value: sc.Duration, Reason: "must be at least 0.1 seconds"}
	}
	if sc.TransitionDuration < MinTransition || sc.TransitionDuration > MaxTransition {
		return &ValidationError{Field: "scene.transition_duration", Value: sc.TransitionDuration, Reason: "must be between 0.0 and 5.0 seconds"}
	}
	for i := range sc.Shots {
		if err := sc.Shots[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "project.name", Value: p.Name, Reason: "must not be empty"}
	}
	if p.FPS < 1 {
		return &ValidationError{Field: "project.fps", Value: p.FPS, Reason: "must be a positive frame rate"}
	}
	for i := range p.Scenes {
		if err := p.Scenes[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DerivedDurationSeconds sums the shots' durations plus every shot's
// transition gap except the last shot's.
func (sc *Scene) DerivedDurationSeconds() float64 {
	total := 0.0
	for i := range sc.Shots {
		total += sc.Shots[i].Duration
		if i < len(sc.Shots)-1 {
			total += sc.Shots[i].TransitionDuration
		}
	}
	return total
}

// TotalDurationSeconds sums the scenes' stored durations plus every scene's
// transition gap except the last scene's.
func (p *Project) TotalDurationSeconds() float64 {
	total := 0.0
	for i := range p.Scenes {
		total += p.Scenes[i].Duration
		if i < len(p.Scenes)-1 {
			total += p.Scenes[i].TransitionDuration
		}
	}
	return total
}

// SceneByNumber returns the scene with the given ordinal, or nil.
func (p *Project) SceneByNumber(number int) *Scene {
	for i := range p.Scenes {
		if p.Scenes[i].Number == number {
			return &p.Scenes[i]
		}
	}
	return nil
}

// ShotByNumber returns the shot with the given ordinal, or nil.
func (sc *Scene) ShotByNumber(number int) *Shot {
	for i := range sc.Shots {
		if sc.Shots[i].Number == number {
			return &sc.Shots[i]
		}
	}
	return nil
}

// ShotCount returns the total number of shots across all scenes.
func (p *Project) ShotCount() int {
	n := 0
	for i := range p.Scenes {
		n += len(p.Scenes[i].Shots)
	}
	return n
}
