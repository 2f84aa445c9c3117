package api

import (
	"chesslens/internal/services"
	"chesslens/internal/worker"
)

// Server holds the service dependencies for all HTTP handlers.
type Server struct {
	ProfileService  services.ProfileService
	GameService     services.GameService
	AnalysisService services.AnalysisService
	ReportService   services.ReportService
	ImportService   services.ImportService

	AnalysisPool *worker.Pool
}

// NewServer creates a Server with the given services.
func NewServer(
	profileService services.ProfileService,
	gameService services.GameService,
	analysisService services.AnalysisService,
	reportService services.ReportService,
	importService services.ImportService,
	analysisPool *worker.Pool,
) *Server {
	return &Server{
		ProfileService:  profileService,
		GameService:     gameService,
		AnalysisService: analysisService,
		ReportService:   reportService,
		ImportService:   importService,
		AnalysisPool:    analysisPool,
	}
}
