// Package web serves a localhost-only single-user mapping API; it
// intentionally has no auth/CSRF protection in this mode.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"crmimport/config"
	"crmimport/executor"
	"crmimport/importer"
	"crmimport/mapping"
	"crmimport/schema"
	"crmimport/storage"

	"github.com/google/uuid"
)

// Server exposes the interactive mapping flow over JSON: upload a file to
// open a session, pick a sheet, revise the proposed mapping, then commit and
// execute the import.
type Server struct {
	store *storage.SQLiteStore
	cfg   config.Config
	mux   *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*uploadSession
}

type uploadSession struct {
	id       string
	kind     string
	fileName string
	fields   []schema.Field
	session  *mapping.Session
	result   *executor.Result
}

type sessionView struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	FileName   string             `json:"fileName"`
	State      string             `json:"state"`
	SheetNames []string           `json:"sheetNames"`
	Sheet      string             `json:"sheet,omitempty"`
	Headers    []string           `json:"headers,omitempty"`
	Mapping    map[string]string  `json:"mapping"`
	Confidence map[string]float64 `json:"confidence"`
	Missing    []string           `json:"missing"`
	Result     *executor.Result   `json:"result,omitempty"`
}

type assignRequest struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

type unassignRequest struct {
	Field string `json:"field"`
}

type sheetRequest struct {
	Sheet string `json:"sheet"`
}

type validationResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

func NewServer(store *storage.SQLiteStore, cfg config.Config) http.Handler {
	server := &Server{
		store:    store,
		cfg:      cfg,
		sessions: make(map[string]*uploadSession),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/session", server.handleSessionCreate)
	mux.HandleFunc("GET /api/session/{id}", server.handleSessionGet)
	mux.HandleFunc("POST /api/session/{id}/sheet", server.handleSessionSheet)
	mux.HandleFunc("POST /api/session/{id}/assign", server.handleSessionAssign)
	mux.HandleFunc("POST /api/session/{id}/unassign", server.handleSessionUnassign)
	mux.HandleFunc("POST /api/session/{id}/commit", server.handleSessionCommit)
	mux.HandleFunc("DELETE /api/session/{id}", server.handleSessionDelete)
	mux.HandleFunc("GET /api/runs", server.handleRunList)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	kind := strings.TrimSpace(r.FormValue("kind"))
	if kind == "" {
		http.Error(w, "missing import kind", http.StatusBadRequest)
		return
	}
	fields, err := s.cfg.FieldsFor(kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		http.Error(w, fmt.Sprintf("create temp upload: %v", err), http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		http.Error(w, fmt.Sprintf("save upload: %v", err), http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		http.Error(w, fmt.Sprintf("close upload temp file: %v", err), http.StatusInternalServerError)
		return
	}

	reader, err := importer.ReaderForPath(header.Filename, strings.TrimSpace(r.FormValue("format")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	source, err := reader.Read(tmpPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	source.FilePath = header.Filename

	entry := &uploadSession{
		id:       uuid.NewString(),
		kind:     kind,
		fileName: header.Filename,
		fields:   fields,
		session:  mapping.NewSession(source, fields),
	}

	s.mu.Lock()
	s.sessions[entry.id] = entry
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, buildSessionView(entry))
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, buildSessionView(entry))
}

func (s *Server) handleSessionSheet(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var body sheetRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := entry.session.SelectSheet(strings.TrimSpace(body.Sheet)); err != nil {
		http.Error(w, err.Error(), sessionErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, buildSessionView(entry))
}

func (s *Server) handleSessionAssign(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var body assignRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := entry.session.Assign(strings.TrimSpace(body.Field), body.Header); err != nil {
		http.Error(w, err.Error(), sessionErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, buildSessionView(entry))
}

func (s *Server) handleSessionUnassign(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var body unassignRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := entry.session.Unassign(strings.TrimSpace(body.Field)); err != nil {
		http.Error(w, err.Error(), sessionErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, buildSessionView(entry))
}

func (s *Server) handleSessionCommit(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	mapped, err := entry.session.Commit()
	if err != nil {
		var validation *mapping.ValidationError
		if errors.As(err, &validation) {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
				Error:   validation.Error(),
				Missing: validation.Missing,
			})
			return
		}
		http.Error(w, err.Error(), sessionErrorStatus(err))
		return
	}

	headers, err := entry.session.Headers()
	if err != nil {
		http.Error(w, err.Error(), sessionErrorStatus(err))
		return
	}
	rows, err := entry.session.Rows()
	if err != nil {
		http.Error(w, err.Error(), sessionErrorStatus(err))
		return
	}

	sheet := &importer.Sheet{Name: entry.session.SheetName(), Headers: headers, Rows: rows}
	result := executor.Execute(
		mapped,
		sheet,
		entry.fields,
		schema.DefaultCoercer(s.cfg.DateFormat),
		s.store.RecordWriter(entry.kind, entry.fileName),
	)
	entry.result = &result

	if _, err := s.store.InsertRun(entry.kind, entry.fileName, sheet.Name, result); err != nil {
		http.Error(w, fmt.Sprintf("persist import run: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, buildSessionView(entry))
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunList(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns()
	if err != nil {
		http.Error(w, fmt.Sprintf("list import runs: %v", err), http.StatusInternalServerError)
		return
	}

	type runView struct {
		ID         int64  `json:"id"`
		Kind       string `json:"kind"`
		SourceFile string `json:"sourceFile"`
		Sheet      string `json:"sheet"`
		Successful int    `json:"successful"`
		Failed     int    `json:"failed"`
		CreatedAt  string `json:"createdAt"`
	}
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView{
			ID:         run.ID,
			Kind:       run.Kind,
			SourceFile: run.SourceFile,
			Sheet:      run.Sheet,
			Successful: run.Successful,
			Failed:     run.Failed,
			CreatedAt:  run.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) lookup(id string) (*uploadSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	return entry, ok
}

func buildSessionView(entry *uploadSession) sessionView {
	session := entry.session
	view := sessionView{
		ID:         entry.id,
		Kind:       entry.kind,
		FileName:   entry.fileName,
		State:      string(session.State()),
		SheetNames: session.SheetNames(),
		Sheet:      session.SheetName(),
		Mapping:    session.Mapping(),
		Confidence: make(map[string]float64),
		Missing:    session.Validate(),
		Result:     entry.result,
	}

	if headers, err := session.Headers(); err == nil {
		view.Headers = headers
	}
	for key := range view.Mapping {
		view.Confidence[key] = session.Confidence(key)
	}

	return view
}

func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, mapping.ErrSelectionRequired):
		return http.StatusConflict
	case errors.Is(err, mapping.ErrAlreadyCommitted):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}
