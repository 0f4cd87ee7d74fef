package storyboard

import (
	"errors"
	"testing"
)

func TestNewShot(t *testing.T) {
	shot, err := NewShot(1, "Opening narration", 5.0)
	if err != nil {
		t.Fatalf("NewShot() error = %v", err)
	}
	if shot.TransitionDuration != DefaultShotTransition {
		t.Errorf("TransitionDuration = %v, want %v", shot.TransitionDuration, DefaultShotTransition)
	}
}

func TestNewShot_DurationRange(t *testing.T) {
	cases := []struct {
		name    string
		seconds float64
		wantErr bool
	}{
		{"below minimum", 0.05, true},
		{"at minimum", 0.1, false},
		{"at maximum", 60.0, false},
		{"above maximum", 60.01, true},
		{"zero", 0, true},
		{"negative", -1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewShot(1, "text", tc.seconds)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewShot(duration=%v) error = %v, wantErr %v", tc.seconds, err, tc.wantErr)
			}
			if err != nil {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestShotValidate_TransitionRange(t *testing.T) {
	shot := Shot{Number: 1, Duration: 1.0, TransitionDuration: 5.1}
	if shot.Validate() == nil {
		t.Error("transition above 5.0 validated, want error")
	}
	shot.TransitionDuration = -0.1
	if shot.Validate() == nil {
		t.Error("negative transition validated, want error")
	}
	shot.TransitionDuration = 0.0
	if err := shot.Validate(); err != nil {
		t.Errorf("zero transition rejected: %v", err)
	}
}

func TestNewScene_DerivesDurationAndUppercasesTitle(t *testing.T) {
	shots := []Shot{
		{Number: 1, Duration: 5.0, TransitionDuration: 0.5},
		{Number: 2, Duration: 3.0, TransitionDuration: 0.5},
	}

	scene, err := NewScene(1, "  the intro  ", "hook the viewer", shots)
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}

	if scene.Title != "THE INTRO" {
		t.Errorf("Title = %q, want %q", scene.Title, "THE INTRO")
	}
	// 5.0 + 0.5 + 3.0; the last shot's transition does not count.
	if scene.Duration != 8.5 {
		t.Errorf("Duration = %v, want 8.5", scene.Duration)
	}
	if scene.TransitionDuration != DefaultSceneTransition {
		t.Errorf("TransitionDuration = %v, want %v", scene.TransitionDuration, DefaultSceneTransition)
	}
}

func TestTotalDurationSeconds(t *testing.T) {
	p := Project{
		Name: "demo",
		FPS:  30,
		Scenes: []Scene{
			{Number: 1, Duration: 8.5, TransitionDuration: 1.0,
				Shots: []Shot{{Number: 1, Duration: 8.5, TransitionDuration: 0.5}}},
			{Number: 2, Duration: 4.0, TransitionDuration: 1.0,
				Shots: []Shot{{Number: 1, Duration: 4.0, TransitionDuration: 0.5}}},
		},
	}

	// 8.5 + 1.0 + 4.0; the last scene's transition does not count.
	if got := p.TotalDurationSeconds(); got != 13.5 {
		t.Errorf("TotalDurationSeconds() = %v, want 13.5", got)
	}
}

func TestNewProject_Defaults(t *testing.T) {
	p, err := NewProject("demo", "Demo", 0, nil)
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	if p.FPS != DefaultFPS {
		t.Errorf("FPS = %d, want %d", p.FPS, DefaultFPS)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestProjectValidate_RejectsBlankName(t *testing.T) {
	p := Project{Name: "   ", FPS: 30}
	if p.Validate() == nil {
		t.Error("blank name validated, want error")
	}
}

func TestSceneByNumber_ShotByNumber(t *testing.T) {
	p := Project{
		Name: "demo",
		FPS:  30,
		Scenes: []Scene{
			{Number: 1, Duration: 1.0, TransitionDuration: 1.0,
				Shots: []Shot{{Number: 1, Duration: 1.0, TransitionDuration: 0.5}}},
		},
	}

	if p.SceneByNumber(1) == nil {
		t.Error("SceneByNumber(1) = nil")
	}
	if p.SceneByNumber(7) != nil {
		t.Error("SceneByNumber(7) != nil")
	}
	if p.Scenes[0].ShotByNumber(1) == nil {
		t.Error("ShotByNumber(1) = nil")
	}
	if p.Scenes[0].ShotByNumber(3) != nil {
		t.Error("ShotByNumber(3) != nil")
	}
}

func TestNormalizeProjectName(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"spaces to hyphens", "My Great Video", "My-Great-Video", false},
		{"strips punctuation", "What is DNA?!", "What-is-DNA", false},
		{"keeps underscores and hyphens", "a_b-c", "a_b-c", false},
		{"trims whitespace", "  padded  ", "padded", false},
		{"empty", "", "", true},
		{"only punctuation", "???", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeProjectName(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NormalizeProjectName(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("NormalizeProjectName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
