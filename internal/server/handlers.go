package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eightynine/talentbot/internal/auth"
	"github.com/eightynine/talentbot/internal/repository"
	"github.com/eightynine/talentbot/internal/resume"
)

type searchRequest struct {
	JobDescription string `json:"job_description"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.JobDescription == "" {
		writeError(w, http.StatusBadRequest, "job_description is required")
		return
	}

	results, err := s.services.Search.Search(r.Context(), req.JobDescription)
	if err != nil {
		s.logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type createResumeRequest struct {
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	CVFile  string            `json:"cv_file"`
	Data    resume.JSONResume `json:"data"`
	Summary string            `json:"summary"`
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var req createResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Summary == "" {
		writeError(w, http.StatusBadRequest, "name, email and summary are required")
		return
	}

	rec := &repository.Resume{
		Name:    req.Name,
		Email:   req.Email,
		CVFile:  req.CVFile,
		Data:    req.Data,
		Summary: req.Summary,
	}
	if err := s.services.Index.IndexResume(r.Context(), rec); err != nil {
		s.logger.Error("failed to index resume", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to index resume")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": rec.ID})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resume id")
		return
	}

	rec, err := s.services.Resumes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resume not found")
			return
		}
		s.logger.Error("failed to get resume", "resume_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get resume")
		return
	}

	text, err := resume.Render(&rec.Data)
	if err != nil {
		s.logger.Error("failed to render resume", "resume_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render resume")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      rec.ID,
		"name":    rec.Name,
		"email":   rec.Email,
		"summary": rec.Summary,
		"text":    text,
		"data":    rec.Data,
	})
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resume id")
		return
	}

	if err := s.services.Index.DeleteResume(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resume not found")
			return
		}
		s.logger.Error("failed to delete resume", "resume_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete resume")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	indexed, err := s.services.Index.Reindex(r.Context())
	if err != nil {
		s.logger.Error("reindex failed", "error", err)
		writeError(w, http.StatusInternalServerError, "reindex failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"indexed": indexed})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()

	token, err := s.services.Tokens.Issue(sessionID)
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": sessionID,
		"token":      token,
	})
}

type chatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	if r.URL.Query().Get("stream") == "true" {
		s.streamChat(w, r, sessionID, req)
		return
	}

	reply, err := s.services.Agent.Chat(r.Context(), sessionID, req.Message, req.Model, nil)
	if err != nil {
		s.logger.Error("chat failed", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "chat failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// streamChat relays agent events as server-sent events.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, sessionID string, req chatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sink := &sseSink{w: w, flusher: flusher}

	if _, err := s.services.Agent.Chat(r.Context(), sessionID, req.Message, req.Model, sink); err != nil {
		s.logger.Error("chat failed", "session_id", sessionID, "error", err)
		sink.send("error", "chat failed")
		return
	}

	sink.send("done", "")
}

// sseSink forwards agent events to a server-sent-events stream.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) send(event, data string) {
	fmt.Fprintf(s.w, "event: %s\n", event)
	encoded, _ := json.Marshal(data)
	fmt.Fprintf(s.w, "data: %s\n\n", encoded)
	s.flusher.Flush()
}

func (s *sseSink) OnToken(token string)    { s.send("token", token) }
func (s *sseSink) OnToolStart(name string) { s.send("tool_start", name) }
func (s *sseSink) OnToolEnd(name string)   { s.send("tool_end", name) }
