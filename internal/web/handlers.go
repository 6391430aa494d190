package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KaramelBytes/edascope/internal/parser"
	"github.com/KaramelBytes/edascope/internal/session"
	"go.uber.org/zap"
)

type pageData struct {
	View      session.View
	Flash     string
	Accept    string
	Heatmap   *heatmap
	Histogram *histogramChart
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v, flash := s.viewOnce()

	data := pageData{
		View:      v,
		Flash:     flash,
		Accept:    strings.Join(parser.Supported(), ","),
		Histogram: buildHistogram(v.Distribution),
	}
	if v.Correlation != nil {
		data.Heatmap = buildHeatmap(v.Correlation)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		zap.L().Error("template error", zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit))
			return
		}
		s.fail(w, r, http.StatusBadRequest, "malformed upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "failed to read file")
		return
	}

	err = s.locked(func() error { return s.sess.Upload(header.Filename, content) })
	if err != nil {
		var ufe *parser.UnsupportedFormatError
		if errors.As(err, &ufe) {
			s.fail(w, r, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		s.fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.done(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, http.StatusBadRequest, "failed to parse form")
		return
	}
	column := r.FormValue("column")
	err := s.locked(func() error { return s.sess.Select(column) })
	if errors.Is(err, session.ErrNoDataset) {
		s.fail(w, r, http.StatusConflict, err.Error())
		return
	}
	// Other selection errors are already in the view's warnings.
	if err != nil && wantsJSON(r) {
		writeJSON(w, http.StatusUnprocessableEntity, s.view())
		return
	}
	s.done(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	_ = s.locked(func() error {
		s.sess.Reset()
		return nil
	})
	s.done(w, r)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

// done answers a successful action: the JSON view for API clients, a
// redirect back to the page otherwise.
func (s *Server) done(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		s.handleReport(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fail answers a rejected action with status for API clients, or stores the
// message for the next page render.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if wantsJSON(r) {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	_ = s.locked(func() error {
		s.flash = msg
		return nil
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// locked runs fn with the session lock held, releasing it even if fn panics.
func (s *Server) locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Server) view() session.View {
	var v session.View
	_ = s.locked(func() error {
		v = s.sess.View()
		return nil
	})
	return v
}

// viewOnce returns the view and the pending flash message, consuming it.
func (s *Server) viewOnce() (session.View, string) {
	var (
		v     session.View
		flash string
	)
	_ = s.locked(func() error {
		v = s.sess.View()
		flash, s.flash = s.flash, ""
		return nil
	})
	return v, flash
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}
