package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/engine"
	"github.com/roach88/launchdash/internal/render"
)

// chartPayload is one recomputed slot as sent to the browser.
type chartPayload struct {
	Description chart.Description `json:"description"`
	SVG         string            `json:"svg"`
	ETag        string            `json:"etag"`
}

// updateResponse is the JSON form of an engine.Update.
type updateResponse struct {
	Session   string           `json:"session"`
	Revision  int64            `json:"revision"`
	Changed   []engine.Input   `json:"changed,omitempty"`
	Selection engine.Selection `json:"selection"`
	Charts    []chartPayload   `json:"charts"`
}

type controlsResponse struct {
	Selector control.SiteSelector `json:"selector"`
	Slider   control.RangeSlider  `json:"slider"`
	Marks    []control.Mark       `json:"marks"`
	Initial  engine.Selection     `json:"initial"`
	Outputs  []chart.Slot         `json:"outputs"`
}

type siteRequest struct {
	Site *string `json:"site"`
}

type payloadRequest struct {
	Lo *float64 `json:"lo"`
	Hi *float64 `json:"hi"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write json response", "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps engine errors to HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsUnknownSession(err):
		s.writeJSONError(w, http.StatusNotFound, err.Error())
	case engine.IsInputError(err):
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) encodeUpdate(u engine.Update) (updateResponse, error) {
	resp := updateResponse{
		Session:   u.Session,
		Revision:  u.Revision,
		Changed:   u.Changed,
		Selection: u.Selection,
		Charts:    make([]chartPayload, 0, len(u.Charts)),
	}
	for _, d := range u.Charts {
		svg, err := render.SVGBytes(d, s.size)
		if err != nil {
			return updateResponse{}, fmt.Errorf("render %s: %w", d.Slot, err)
		}
		etag, err := d.Hash()
		if err != nil {
			return updateResponse{}, err
		}
		resp.Charts = append(resp.Charts, chartPayload{Description: d, SVG: string(svg), ETag: etag})
	}
	return resp, nil
}

func (s *Server) writeUpdate(w http.ResponseWriter, status int, u engine.Update) {
	resp, err := s.encodeUpdate(u)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, status, resp)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"rows":      s.registry.Engine().Table().Len(),
		"sessions":  s.registry.Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, controlsResponse{
		Selector: s.selector,
		Slider:   s.slider,
		Marks:    s.slider.Marks(),
		Initial:  s.registry.Engine().InitialSelection(),
		Outputs:  s.registry.Engine().Outputs(),
	})
}

// handleDashboard renders the page. A valid session cookie resumes that
// session; otherwise a new one is created.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var sess *engine.Session
	if c, err := r.Cookie(SessionCookie); err == nil {
		sess, _ = s.registry.Get(c.Value)
	}
	if sess == nil {
		sess = s.registry.Create()
	}

	u := sess.Snapshot()
	charts := make(map[string]template.HTML, len(u.Charts))
	for _, d := range u.Charts {
		svg, err := render.SVGBytes(d, s.size)
		if err != nil {
			http.Error(w, "Error rendering chart: "+err.Error(), http.StatusInternalServerError)
			return
		}
		charts[string(d.Slot)] = template.HTML(svg)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		Title     string
		Session   string
		Selector  control.SiteSelector
		Slider    control.RangeSlider
		Selection engine.Selection
		Charts    map[string]template.HTML
	}{
		Title:     s.title,
		Session:   sess.ID(),
		Selector:  s.selector,
		Slider:    s.slider,
		Selection: u.Selection,
		Charts:    charts,
	}
	if err := s.page.Execute(w, data); err != nil {
		slog.Warn("execute page template", "error", err)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.registry.Create()
	s.writeUpdate(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeUpdate(w, http.StatusOK, sess.Snapshot())
}

// handleDropSession ends a session before it idles out.
func (s *Server) handleDropSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.registry.Drop(id) {
		s.writeEngineError(w, engine.NewUnknownSessionError(id))
		return
	}
	slog.Debug("session dropped", "session", id, "sessions", s.registry.Len())
	w.WriteHeader(http.StatusNoContent)
}

// handleSite applies a selector change. Values outside the selector's
// options are applied as-is and produce empty charts.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	var req siteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	if req.Site == nil {
		s.writeJSONError(w, http.StatusBadRequest, "missing 'site' field")
		return
	}
	if !s.selector.Known(*req.Site) {
		slog.Debug("site outside selector options", "session", sess.ID(), "site", *req.Site)
	}
	s.writeUpdate(w, http.StatusOK, sess.SetSite(*req.Site))
}

// handlePayload applies a slider change. The pair is coerced by the slider
// first; a missing end defaults to the slider's extent on that side.
func (s *Server) handlePayload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	var req payloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	lo, hi := math.NaN(), math.NaN()
	if req.Lo != nil {
		lo = *req.Lo
	}
	if req.Hi != nil {
		hi = *req.Hi
	}

	u, err := sess.SetPayload(s.slider.Coerce(lo, hi))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeUpdate(w, http.StatusOK, u)
}

// handleChartSVG serves one slot as SVG. The ETag is the description hash,
// so an unchanged selection answers 304.
func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	slot, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	d, ok := sess.Chart(chart.Slot(slot))
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no chart slot %q", slot))
		return
	}

	hash, err := d.Hash()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	etag := `"` + hash + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	svg, err := render.SVGBytes(d, s.size)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}
