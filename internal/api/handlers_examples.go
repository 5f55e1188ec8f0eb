package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/domview/internal/examples"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListExamples(w http.ResponseWriter, r *http.Request) {
	names := append(examples.Names(), examples.CurrentPage)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"examples": names})
}

// handleGetExample returns a built-in example, or for current-page the
// simplified snapshot of the client page itself.
func (s *Server) handleGetExample(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var markup string
	if name == examples.CurrentPage {
		page, err := staticFiles.ReadFile("static/index.html")
		if err != nil {
			jsonError(w, "client page unavailable", http.StatusInternalServerError)
			return
		}
		markup, err = examples.Snapshot(string(page))
		if err != nil {
			jsonError(w, "failed to snapshot page: "+err.Error(), http.StatusInternalServerError)
			return
		}
	} else {
		var err error
		markup, err = examples.Get(name)
		if err != nil {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"name": name, "markup": markup})
}
