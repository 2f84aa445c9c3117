package api

import (
	"net/http"

	"chesslens/internal/errors"
	"chesslens/internal/models"
	"chesslens/internal/worker"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.GameFilter{
		ProfileID:      queryInt64(r, "profile_id"),
		TimeClass:      q.Get("time_class"),
		Result:         q.Get("result"),
		OpeningName:    q.Get("opening"),
		AnalysisStatus: q.Get("status"),
		Limit:          queryInt(r, "limit", 50),
		Offset:         queryInt(r, "offset", 0),
		OrderBy:        q.Get("order_by"),
		OrderDir:       q.Get("order_dir"),
	}

	games, total, err := s.GameService.ListGames(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"games":  games,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (s *Server) handleGameDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	detail, err := s.GameService.GameDetail(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleAnalysisProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	progress, err := s.AnalysisService.Progress(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleQueueAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	// Reject unknown games up front so the queue only ever holds real work.
	if _, err := s.GameService.GetGame(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	job := &worker.AnalyzeGameJob{Analyzer: s.AnalysisService, GameID: id}
	if !s.AnalysisPool.TrySubmit(job) {
		handleError(w, r, errors.NewBadRequestError("analysis queue is full, try again later"))
		return
	}
	respondJSON(w, r, http.StatusAccepted, map[string]any{"status": "analysis queued"})
}
