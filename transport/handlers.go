package transport

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"

	"github.com/danielgatis/go-vscreen"
)

// maxInputSize caps one POST /api/input body.
const maxInputSize = 4096

type ConfigInfo struct {
	Live    vscreen.TerminalConfig `json:"live"`
	Scratch vscreen.TerminalConfig `json:"scratch"`
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	frame, err := s.Frame()
	if err != nil {
		s.logger.Errorf("Failed to serialize screen: %v", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(frame)
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(s.Labels())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	detail := vscreen.SnapshotDetail(r.URL.Query().Get("detail"))
	switch detail {
	case "":
		detail = vscreen.SnapshotDetailText
	case vscreen.SnapshotDetailText, vscreen.SnapshotDetailStyled, vscreen.SnapshotDetailFull:
	default:
		http.Error(w, "Unknown snapshot detail", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.screen.Snapshot(detail))
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	img := s.screen.Screenshot()

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		s.logger.Errorf("Failed to encode screenshot: %v", err)
	}
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	if s.input == nil {
		http.Error(w, "Input not supported", http.StatusNotImplemented)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxInputSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.input.Write(data); err != nil {
		s.logger.Errorf("Failed to write input: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.configInfo())
}

// handleSetConfig merges the posted fields into the scratch configuration.
// Nothing takes effect until the settings are applied.
func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.screen.Scratch()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid config: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.screen.UpdateScratch(func(scratch *vscreen.TerminalConfig) {
		*scratch = cfg
	})

	writeJSON(w, s.configInfo())
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("noclear") != "" {
		s.screen.ApplySettingsNoClear()
	} else {
		s.screen.ApplySettings()
	}

	live := s.screen.Live()
	s.logger.Infof("Applied terminal settings: %dx%d", live.Width, live.Height)
	writeJSON(w, s.configInfo())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.screen.ReloadSettings()
	writeJSON(w, s.configInfo())
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	s.screen.RestoreDefaults()
	s.logger.Info("Restored default terminal settings")
	writeJSON(w, s.configInfo())
}

func (s *Server) configInfo() ConfigInfo {
	return ConfigInfo{
		Live:    s.screen.Live(),
		Scratch: s.screen.Scratch(),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
