package api

import (
	"time"

	"github.com/storycut/storycut-agent/internal/storyboard"
	"github.com/storycut/storycut-agent/internal/timecode"
	"github.com/storycut/storycut-agent/internal/timeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type CreateShotRequest struct {
	Narration          string   `json:"narration"`
	Description        string   `json:"description,omitempty"`
	MediaRef           string   `json:"media_ref,omitempty"`
	Duration           *float64 `json:"duration,omitempty"`
	TransitionDuration *float64 `json:"transition_duration,omitempty"`
}

type CreateSceneRequest struct {
	Title              string              `json:"title"`
	Purpose            string              `json:"purpose,omitempty"`
	TransitionDuration *float64            `json:"transition_duration,omitempty"`
	Shots              []CreateShotRequest `json:"shots"`
}

type CreateProjectRequest struct {
	Name   string               `json:"name"`
	Title  string               `json:"title,omitempty"`
	FPS    int                  `json:"fps,omitempty"`
	Scenes []CreateSceneRequest `json:"scenes"`
}

type ProjectsResponse struct {
	Projects []string `json:"projects"`
}

type ProjectResponse struct {
	Name          string             `json:"name"`
	Title         string             `json:"title"`
	FPS           int                `json:"fps"`
	TotalDuration float64            `json:"total_duration_seconds"`
	Scenes        []storyboard.Scene `json:"scenes"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
}

type SegmentResponse struct {
	Scene         int    `json:"scene"`
	SceneTitle    string `json:"scene_title"`
	Shot          int    `json:"shot"`
	StartMs       int    `json:"start_ms"`
	EndMs         int    `json:"end_ms"`
	StartTimecode string `json:"start_timecode"`
	EndTimecode   string `json:"end_timecode"`
	Narration     string `json:"narration,omitempty"`
}

type TimelineResponse struct {
	Project       string            `json:"project"`
	FPS           int               `json:"fps"`
	TotalMs       int               `json:"total_ms"`
	TotalTimecode string            `json:"total_timecode"`
	Segments      []SegmentResponse `json:"segments"`
}

type UpdateDurationRequest struct {
	Seconds float64 `json:"seconds"`
}

type UpdateTransitionsRequest struct {
	ShotSeconds  *float64 `json:"shot_seconds,omitempty"`
	SceneSeconds *float64 `json:"scene_seconds,omitempty"`
}

type MeasurementItem struct {
	Scene   int     `json:"scene"`
	Shot    int     `json:"shot"`
	Seconds float64 `json:"seconds"`
}

type MeasurementsRequest struct {
	Measurements []MeasurementItem `json:"measurements"`
}

type MeasurementResultResponse struct {
	Scene   int    `json:"scene"`
	Shot    int    `json:"shot"`
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
}

type MeasurementsResponse struct {
	Project string                      `json:"project"`
	Applied int                         `json:"applied"`
	Failed  int                         `json:"failed"`
	Results []MeasurementResultResponse `json:"results"`
}

type ExportRequest struct {
	Format    string `json:"format"`
	OutputDir string `json:"output_dir"`
}

type ExportResponse struct {
	Status     string `json:"status"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	TotalMs    int    `json:"total_ms"`
	Segments   int    `json:"segments"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ProjectToResponse(p *storyboard.Project) ProjectResponse {
	return ProjectResponse{
		Name:          p.Name,
		Title:         p.Title,
		FPS:           p.FPS,
		TotalDuration: p.TotalDurationSeconds(),
		Scenes:        p.Scenes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

func TimelineToResponse(tl *timeline.Timeline) TimelineResponse {
	resp := TimelineResponse{
		Project:       tl.ProjectName,
		FPS:           tl.FPS,
		TotalMs:       tl.TotalMs,
		TotalTimecode: timecode.FromMs(tl.TotalMs, tl.FPS),
		Segments:      make([]SegmentResponse, len(tl.Segments)),
	}
	for i, seg := range tl.Segments {
		resp.Segments[i] = SegmentResponse{
			Scene:         seg.SceneNumber,
			SceneTitle:    seg.SceneTitle,
			Shot:          seg.ShotNumber,
			StartMs:       seg.StartMs,
			EndMs:         seg.EndMs,
			StartTimecode: timecode.FromMs(seg.StartMs, tl.FPS),
			EndTimecode:   timecode.FromMs(seg.EndMs, tl.FPS),
			Narration:     seg.Narration,
		}
	}
	return resp
}
