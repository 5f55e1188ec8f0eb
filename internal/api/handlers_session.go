package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/domview/internal/render"
	"github.com/dgallion1/domview/internal/viewer"
)

// maxJSONBody bounds non-upload request bodies.
const maxJSONBody = 1 << 20

// stateResponse is the viewer state plus the drawn scene.
type stateResponse struct {
	viewer.State
	SceneSVG string `json:"scene_svg"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.log.Error("create session failed", "error", err)
		jsonError(w, "failed to start viewer: "+err.Error(), http.StatusInternalServerError)
		return
	}
	st := sess.App.State()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"session_id":     sess.ID,
		"debug":          s.cfg.Debug,
		"alert_on_error": s.cfg.Errors.AlertOnError,
		"view":           st.View,
		"animation": map[string]any{
			"duration_ms": s.cfg.Animation.DurationMs,
			"zoom_factor": s.cfg.Animation.ZoomFactor,
		},
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, sessionFrom(r).App.State())
}

type visualizeRequest struct {
	Markup string `json:"markup"`
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req visualizeRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	s.writeState(w, sessionFrom(r).App.Visualize(req.Markup))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var view render.ViewConfig
	if !decodeJSON(w, r, maxJSONBody, &view) {
		return
	}
	s.writeState(w, sessionFrom(r).App.SetView(view))
}

type eventRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}
	app := sessionFrom(r).App

	var st viewer.State
	switch strings.ToLower(req.Type) {
	case "click":
		st = app.Click(req.X, req.Y)
	case "hover":
		st = app.Hover(req.X, req.Y)
	case "dblclick":
		st = app.DoubleClick(req.X, req.Y)
	case "drag":
		st = app.Drag(req.X, req.Y, req.DX, req.DY)
	default:
		jsonError(w, "unknown event type: "+req.Type, http.StatusBadRequest)
		return
	}
	s.writeState(w, st)
}

type zoomRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}
	app := sessionFrom(r).App

	var st viewer.State
	switch req.Action {
	case "in":
		st = app.ZoomIn()
	case "out":
		st = app.ZoomOut()
	case "reset":
		st = app.ResetZoom()
	default:
		jsonError(w, "unknown zoom action: "+req.Action, http.StatusBadRequest)
		return
	}
	s.writeState(w, st)
}

func (s *Server) handleExpandAll(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, sessionFrom(r).App.ExpandAll())
}

func (s *Server) handleCollapseAll(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, sessionFrom(r).App.CollapseAll())
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		jsonError(w, "width and height must be positive", http.StatusBadRequest)
		return
	}
	s.writeState(w, sessionFrom(r).App.Resize(req.Width, req.Height))
}

func (s *Server) handleSceneSVG(w http.ResponseWriter, r *http.Request) {
	scene := sessionFrom(r).App.Scene()
	if scene == nil {
		jsonError(w, "nothing rendered yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := scene.WriteSVG(w); err != nil {
		s.log.Error("write svg failed", "error", err)
	}
}

func (s *Server) handleGetDetail(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r).App.State()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"visible": st.Detail != nil,
		"detail":  st.Detail,
	})
}

func (s *Server) handleHideDetail(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, sessionFrom(r).App.HideDetail())
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	snap, ok := sessionFrom(r).App.Debug()
	if !ok {
		jsonError(w, "debug mode is disabled", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleClearDebugLog(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r).App.ClearDebugLog() {
		jsonError(w, "debug mode is disabled", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeState(w http.ResponseWriter, st viewer.State) {
	resp := stateResponse{State: st}
	if st.Scene != nil {
		svg, err := st.Scene.SVG()
		if err != nil {
			s.log.Error("render svg failed", "error", err)
			jsonError(w, "failed to draw scene", http.StatusInternalServerError)
			return
		}
		resp.SceneSVG = svg
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// decodeJSON reads a bounded JSON body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
