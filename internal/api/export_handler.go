package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/storycut/storycut-agent/internal/export"
	"github.com/storycut/storycut-agent/internal/timeline"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		encoder, err := export.ForFormat(strings.ToLower(req.Format))
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

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

		data, err := encoder.Encode(tl)
		if err != nil {
			WriteServiceError(w, err)
			return
		}

		fileName := export.SanitizeFileName(p.Name, 120)
		if fileName == "" {
			fileName = "storycut_export"
		}

		outputPath := filepath.Join(req.OutputDir, fileName+encoder.Extension())
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		cfg.Logger.Info("timeline exported",
			"project", p.Name, "format", encoder.Format(), "path", outputPath, "total_ms", tl.TotalMs)

		WriteJSON(w, http.StatusOK, ExportResponse{
			Status:     "ok",
			Format:     encoder.Format(),
			OutputPath: outputPath,
			TotalMs:    tl.TotalMs,
			Segments:   len(tl.Segments),
		})
	}
}
