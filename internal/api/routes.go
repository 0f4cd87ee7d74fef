package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storycut/storycut-agent/internal/config"
	"github.com/storycut/storycut-agent/internal/storyboard"
	"github.com/storycut/storycut-agent/internal/timeline"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", listProjectsHandler(cfg))
		r.Post("/", createProjectHandler(cfg))

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", getProjectHandler(cfg))
			r.Delete("/", deleteProjectHandler(cfg))
			r.Get("/timeline", timelineHandler(cfg))
			r.Post("/export", exportHandler(cfg))
			r.Put("/transitions", updateTransitionsHandler(cfg))
			r.Post("/measurements", applyMeasurementsHandler(cfg))
			r.Put("/scenes/{scene}/duration", updateSceneDurationHandler(cfg))
			r.Put("/scenes/{scene}/shots/{shot}/duration", updateShotDurationHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: uptime,
		})
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := cfg.Service.ListProjects(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}
		if names == nil {
			names = []string{}
		}
		WriteJSON(w, http.StatusOK, ProjectsResponse{Projects: names})
	}
}

func createProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		p, err := buildProject(cfg, req)
		if err != nil {
			WriteServiceError(w, err)
			return
		}

		if err := cfg.Service.CreateProject(r.Context(), p); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, ProjectToResponse(p))
	}
}

// buildProject turns a creation request into a validated model. A shot with
// no explicit duration gets one estimated from its narration.
func buildProject(cfg ServerConfig, req CreateProjectRequest) (*storyboard.Project, error) {
	name, err := storyboard.NormalizeProjectName(req.Name)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = name
	}
	fps := req.FPS
	if fps <= 0 {
		fps = cfg.DefaultFPS
	}

	scenes := make([]storyboard.Scene, 0, len(req.Scenes))
	for i, sceneReq := range req.Scenes {
		shots := make([]storyboard.Shot, 0, len(sceneReq.Shots))
		for j, shotReq := range sceneReq.Shots {
			var seconds float64
			if shotReq.Duration != nil {
				seconds = *shotReq.Duration
			} else {
				seconds, err = cfg.Estimator.Measure("", shotReq.Narration)
				if err != nil {
					return nil, &storyboard.ValidationError{
						Field:  "shot.duration",
						Value:  nil,
						Reason: "no duration given and narration is empty",
					}
				}
			}

			shot, err := storyboard.NewShot(j+1, shotReq.Narration, seconds)
			if err != nil {
				return nil, err
			}
			shot.Description = shotReq.Description
			shot.MediaRef = shotReq.MediaRef
			if shotReq.TransitionDuration != nil {
				shot.TransitionDuration = *shotReq.TransitionDuration
				if err := shot.Validate(); err != nil {
					return nil, err
				}
			}
			shots = append(shots, *shot)
		}

		scene, err := storyboard.NewScene(i+1, sceneReq.Title, sceneReq.Purpose, shots)
		if err != nil {
			return nil, err
		}
		if sceneReq.TransitionDuration != nil {
			scene.TransitionDuration = *sceneReq.TransitionDuration
			if err := scene.Validate(); err != nil {
				return nil, err
			}
		}
		scenes = append(scenes, *scene)
	}

	return storyboard.NewProject(name, title, fps, scenes)
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cfg.Service.GetProject(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(p))
	}
}

func deleteProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Service.DeleteProject(r.Context(), chi.URLParam(r, "name")); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cfg.Service.GetProject(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}

		tl, err := timeline.Build(p)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, TimelineToResponse(tl))
	}
}

func updateShotDurationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sceneNum, shotNum, ok := sceneShotParams(w, r)
		if !ok {
			return
		}

		var req UpdateDurationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		p, err := cfg.Service.UpdateShotDuration(r.Context(), chi.URLParam(r, "name"), sceneNum, shotNum, req.Seconds)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(p))
	}
}

func updateSceneDurationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sceneNum, err := strconv.Atoi(chi.URLParam(r, "scene"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "scene must be a number", "BAD_REQUEST")
			return
		}

		var req UpdateDurationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		p, err := cfg.Service.UpdateSceneDuration(r.Context(), chi.URLParam(r, "name"), sceneNum, req.Seconds)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(p))
	}
}

func updateTransitionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateTransitionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		shotSeconds := storyboard.DefaultShotTransition
		if req.ShotSeconds != nil {
			shotSeconds = *req.ShotSeconds
		}
		sceneSeconds := storyboard.DefaultSceneTransition
		if req.SceneSeconds != nil {
			sceneSeconds = *req.SceneSeconds
		}

		p, err := cfg.Service.UpdateTransitionDurations(r.Context(), chi.URLParam(r, "name"), shotSeconds, sceneSeconds)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(p))
	}
}

func applyMeasurementsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MeasurementsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if len(req.Measurements) == 0 {
			WriteError(w, http.StatusBadRequest, "measurements must not be empty", "BAD_REQUEST")
			return
		}

		name := chi.URLParam(r, "name")
		items := make([]storyboard.Measurement, len(req.Measurements))
		for i, m := range req.Measurements {
			items[i] = storyboard.Measurement{Scene: m.Scene, Shot: m.Shot, Seconds: m.Seconds}
		}

		results := cfg.Service.ApplyMeasurements(r.Context(), name, items)

		resp := MeasurementsResponse{
			Project: name,
			Results: make([]MeasurementResultResponse, len(results)),
		}
		for i, res := range results {
			out := MeasurementResultResponse{Scene: res.Scene, Shot: res.Shot, Applied: res.Err == nil}
			if res.Err != nil {
				out.Error = res.Err.Error()
				resp.Failed++
			} else {
				resp.Applied++
			}
			resp.Results[i] = out
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func sceneShotParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	sceneNum, err := strconv.Atoi(chi.URLParam(r, "scene"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "scene must be a number", "BAD_REQUEST")
		return 0, 0, false
	}
	shotNum, err := strconv.Atoi(chi.URLParam(r, "shot"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "shot must be a number", "BAD_REQUEST")
		return 0, 0, false
	}
	return sceneNum, shotNum, true
}
