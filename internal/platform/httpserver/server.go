package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	clipreview "clipledger/contexts/creator-monetization/clip-review-service"
	cliperrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	cliphttp "clipledger/contexts/creator-monetization/clip-review-service/transport/http"
	ratecard "clipledger/contexts/creator-monetization/rate-card-service"
	programerrors "clipledger/contexts/creator-monetization/rate-card-service/domain/errors"
	programhttp "clipledger/contexts/creator-monetization/rate-card-service/transport/http"
	"clipledger/internal/platform/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "clipledger/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	clips    clipreview.Module
	programs ratecard.Module
}

func New(
	clips clipreview.Module,
	programs ratecard.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		clips:    clips,
		programs: programs,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", metrics.Handler())

	s.mux.HandleFunc("POST /api/clips", s.handleSubmitClip)
	s.mux.HandleFunc("GET /api/clips", s.handleListClips)
	s.mux.HandleFunc("GET /api/clips/{clip_id}", s.handleGetClip)
	s.mux.HandleFunc("POST /api/clips/{clip_id}/approve", s.handleApproveClip)
	s.mux.HandleFunc("POST /api/clips/{clip_id}/reject", s.handleRejectClip)
	s.mux.HandleFunc("PATCH /api/clips/{clip_id}/views", s.handleEditViews)
	s.mux.HandleFunc("DELETE /api/clips/{clip_id}", s.handleDeleteClip)

	s.mux.HandleFunc("GET /api/creators/{creator_id}/ledger", s.handleGetLedger)
	s.mux.HandleFunc("GET /api/creators/{creator_id}/dashboard", s.handleCreatorDashboard)
	s.mux.HandleFunc("GET /api/creators/{creator_id}/reports/monthly", s.handleMonthlyEarnings)

	s.mux.HandleFunc("POST /api/programs", s.handleCreateProgram)
	s.mux.HandleFunc("GET /api/programs", s.handleListPrograms)
	s.mux.HandleFunc("GET /api/programs/{program_id}", s.handleGetProgram)
	s.mux.HandleFunc("PATCH /api/programs/{program_id}/rate", s.handleUpdateRate)
	s.mux.HandleFunc("POST /api/programs/{program_id}/archive", s.handleArchiveProgram)
}

func (s *Server) handleSubmitClip(w http.ResponseWriter, r *http.Request) {
	accountID := strings.TrimSpace(r.Header.Get("X-Account-Id"))
	if accountID == "" {
		writeClipError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	var req cliphttp.SubmitClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeClipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	creatorID := strings.TrimSpace(r.Header.Get("X-Creator-Id"))
	resp, err := s.clips.Handler.SubmitClipHandler(r.Context(), accountID, creatorID, req)
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListClips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.clips.Handler.ListClipsHandler(
		r.Context(),
		query.Get("creator_id"),
		query.Get("program_id"),
		query.Get("status"),
	)
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetClip(w http.ResponseWriter, r *http.Request) {
	resp, err := s.clips.Handler.GetClipHandler(r.Context(), r.PathValue("clip_id"))
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveClip(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireReviewer(w, r)
	if !ok {
		return
	}

	resp, err := s.clips.Handler.ApproveClipHandler(r.Context(), reviewerID, r.PathValue("clip_id"))
	metrics.ObserveReconciliation("approve", err)
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectClip(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireReviewer(w, r)
	if !ok {
		return
	}

	resp, err := s.clips.Handler.RejectClipHandler(r.Context(), reviewerID, r.PathValue("clip_id"))
	metrics.ObserveReconciliation("reject", err)
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditViews(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireReviewer(w, r)
	if !ok {
		return
	}

	var req cliphttp.EditViewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeClipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.clips.Handler.EditViewsHandler(r.Context(), reviewerID, r.PathValue("clip_id"), req)
	metrics.ObserveReconciliation("edit_views", err)
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteClip(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireReviewer(w, r)
	if !ok {
		return
	}

	err := s.clips.Handler.DeleteClipHandler(r.Context(), reviewerID, r.PathValue("clip_id"))
	metrics.ObserveReconciliation("delete", err)
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	resp, err := s.clips.Handler.GetLedgerHandler(r.Context(), r.PathValue("creator_id"))
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatorDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.clips.Handler.CreatorDashboardHandler(r.Context(), r.PathValue("creator_id"))
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMonthlyEarnings(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		writeClipError(w, http.StatusBadRequest, "missing_month", "month query parameter is required (YYYY-MM)")
		return
	}
	resp, err := s.clips.Handler.MonthlyEarningsHandler(r.Context(), r.PathValue("creator_id"), month)
	if err != nil {
		writeClipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req programhttp.CreateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProgramError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.programs.Handler.CreateProgramHandler(r.Context(), req)
	if err != nil {
		writeProgramDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	resp, err := s.programs.Handler.ListProgramsHandler(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeProgramDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	resp, err := s.programs.Handler.GetProgramHandler(r.Context(), r.PathValue("program_id"))
	if err != nil {
		writeProgramDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateRate(w http.ResponseWriter, r *http.Request) {
	var req programhttp.UpdateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProgramError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.programs.Handler.UpdateRateHandler(r.Context(), r.PathValue("program_id"), req)
	if err != nil {
		writeProgramDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArchiveProgram(w http.ResponseWriter, r *http.Request) {
	resp, err := s.programs.Handler.ArchiveProgramHandler(r.Context(), r.PathValue("program_id"))
	if err != nil {
		writeProgramDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireReviewer(w http.ResponseWriter, r *http.Request) (string, bool) {
	reviewerID := strings.TrimSpace(r.Header.Get("X-Reviewer-Id"))
	if reviewerID == "" {
		writeClipError(w, http.StatusUnauthorized, "missing_reviewer", "X-Reviewer-Id header is required")
		return "", false
	}
	return reviewerID, true
}

func writeClipDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cliperrors.ErrClipNotFound):
		writeClipError(w, http.StatusNotFound, "clip_not_found", err.Error())
	case errors.Is(err, cliperrors.ErrProgramNotFound):
		writeClipError(w, http.StatusNotFound, "program_not_found", err.Error())
	case errors.Is(err, cliperrors.ErrUnsupportedLink):
		writeClipError(w, http.StatusBadRequest, "unsupported_link", err.Error())
	case errors.Is(err, cliperrors.ErrInvalidViews):
		writeClipError(w, http.StatusBadRequest, "invalid_views", err.Error())
	case errors.Is(err, cliperrors.ErrInvalidClipInput):
		writeClipError(w, http.StatusBadRequest, "invalid_clip_input", err.Error())
	case errors.Is(err, cliperrors.ErrDuplicateContent):
		writeClipError(w, http.StatusConflict, "duplicate_content", err.Error())
	case errors.Is(err, cliperrors.ErrInvalidStatusTransition):
		writeClipError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, cliperrors.ErrProgramNotActive):
		writeClipError(w, http.StatusConflict, "program_not_active", err.Error())
	case errors.Is(err, cliperrors.ErrConcurrentUpdate):
		writeClipError(w, http.StatusConflict, "concurrent_update", err.Error())
	case errors.Is(err, cliperrors.ErrUnauthorizedActor):
		writeClipError(w, http.StatusUnauthorized, "unauthorized_actor", err.Error())
	default:
		writeClipError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeProgramDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, programerrors.ErrProgramNotFound):
		writeProgramError(w, http.StatusNotFound, "program_not_found", err.Error())
	case errors.Is(err, programerrors.ErrInvalidProgramInput):
		writeProgramError(w, http.StatusBadRequest, "invalid_program_input", err.Error())
	case errors.Is(err, programerrors.ErrProgramArchived):
		writeProgramError(w, http.StatusConflict, "program_archived", err.Error())
	case errors.Is(err, programerrors.ErrConcurrentUpdate):
		writeProgramError(w, http.StatusConflict, "concurrent_update", err.Error())
	default:
		writeProgramError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeClipError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cliphttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeProgramError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, programhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
