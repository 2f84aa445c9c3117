package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslens/internal/api"
	"chesslens/internal/errors"
	"chesslens/internal/models"
	"chesslens/internal/services"
	"chesslens/internal/worker"
)

// Function-field stubs so each test wires only the methods it exercises.

type stubProfileService struct {
	list   func(ctx context.Context) ([]models.Profile, error)
	create func(ctx context.Context, username string) (*models.Profile, error)
	get    func(ctx context.Context, id int64) (*models.Profile, error)
	delete func(ctx context.Context, id int64) error
}

func (s *stubProfileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.list(ctx)
}
func (s *stubProfileService) CreateProfile(ctx context.Context, username string) (*models.Profile, error) {
	return s.create(ctx, username)
}
func (s *stubProfileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	return s.get(ctx, id)
}
func (s *stubProfileService) DeleteProfile(ctx context.Context, id int64) error {
	return s.delete(ctx, id)
}

type stubGameService struct {
	list   func(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error)
	get    func(ctx context.Context, id int64) (*models.Game, error)
	detail func(ctx context.Context, id int64) (*services.GameDetail, error)
}

func (s *stubGameService) ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error) {
	return s.list(ctx, filter)
}
func (s *stubGameService) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	return s.get(ctx, id)
}
func (s *stubGameService) GameDetail(ctx context.Context, id int64) (*services.GameDetail, error) {
	return s.detail(ctx, id)
}

type stubAnalysisService struct {
	analyze  func(ctx context.Context, gameID int64) error
	progress func(ctx context.Context, gameID int64) (models.AnalysisProgress, error)
}

func (s *stubAnalysisService) AnalyzeGame(ctx context.Context, gameID int64) error {
	return s.analyze(ctx, gameID)
}
func (s *stubAnalysisService) Progress(ctx context.Context, gameID int64) (models.AnalysisProgress, error) {
	return s.progress(ctx, gameID)
}

type stubReportService struct {
	report func(ctx context.Context, profileID int64) (models.PlayerReport, error)
}

func (s *stubReportService) PlayerReport(ctx context.Context, profileID int64) (models.PlayerReport, error) {
	return s.report(ctx, profileID)
}
func (s *stubReportService) Weaknesses(ctx context.Context, profileID int64) (models.WeaknessReport, error) {
	r, err := s.report(ctx, profileID)
	return r.Weaknesses, err
}
func (s *stubReportService) Openings(ctx context.Context, profileID int64) (models.OpeningReport, error) {
	r, err := s.report(ctx, profileID)
	return r.Openings, err
}
func (s *stubReportService) Playstyle(ctx context.Context, profileID int64) (models.PlaystyleProfile, error) {
	r, err := s.report(ctx, profileID)
	return r.Playstyle, err
}

type stubImportService struct {
	sync   func(ctx context.Context, profile models.Profile) error
	resume func(ctx context.Context, profileID int64) (int, error)
}

func (s *stubImportService) SyncGames(ctx context.Context, profile models.Profile) error {
	return s.sync(ctx, profile)
}
func (s *stubImportService) ResumePending(ctx context.Context, profileID int64) (int, error) {
	return s.resume(ctx, profileID)
}

func testServer(mutate func(*api.Server)) http.Handler {
	srv := api.NewServer(
		&stubProfileService{},
		&stubGameService{},
		&stubAnalysisService{},
		&stubReportService{},
		&stubImportService{},
		worker.NewPool("analysis", 1, 4),
	)
	if mutate != nil {
		mutate(srv)
	}
	return srv.Routes()
}

func TestGetProfile(t *testing.T) {
	handler := testServer(func(srv *api.Server) {
		srv.ProfileService = &stubProfileService{
			get: func(ctx context.Context, id int64) (*models.Profile, error) {
				return &models.Profile{ID: id, Username: "alice"}, nil
			},
		}
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profiles/1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var profile models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "alice", profile.Username)
}

func TestGetProfile_NotFound(t *testing.T) {
	handler := testServer(func(srv *api.Server) {
		srv.ProfileService = &stubProfileService{
			get: func(ctx context.Context, id int64) (*models.Profile, error) {
				return nil, errors.NewNotFoundError("profile", id)
			},
		}
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profiles/99", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrCodeNotFound, body.Error.Code)
}

func TestGetProfile_InvalidID(t *testing.T) {
	handler := testServer(nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profiles/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProfile(t *testing.T) {
	handler := testServer(func(srv *api.Server) {
		srv.ProfileService = &stubProfileService{
			create: func(ctx context.Context, username string) (*models.Profile, error) {
				return &models.Profile{ID: 1, Username: username}, nil
			},
		}
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/", strings.NewReader(`{"username":"alice"}`))
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/profiles/", strings.NewReader(`{not json`))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGames_FilterPassthrough(t *testing.T) {
	var captured models.GameFilter
	handler := testServer(func(srv *api.Server) {
		srv.GameService = &stubGameService{
			list: func(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error) {
				captured = filter
				return []models.Game{{ID: 1}}, 1, nil
			},
		}
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/games/?profile_id=3&time_class=blitz&result=win&limit=10&offset=20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), captured.ProfileID)
	assert.Equal(t, "blitz", captured.TimeClass)
	assert.Equal(t, "win", captured.Result)
	assert.Equal(t, 10, captured.Limit)
	assert.Equal(t, 20, captured.Offset)
}

func TestQueueAnalysis(t *testing.T) {
	pool := worker.NewPool("analysis", 1, 2)
	handler := testServer(func(srv *api.Server) {
		srv.AnalysisPool = pool
		srv.GameService = &stubGameService{
			get: func(ctx context.Context, id int64) (*models.Game, error) {
				return &models.Game{ID: id}, nil
			},
		}
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/games/5/analyze", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, pool.QueueSize())
}

func TestQueueAnalysis_FullQueue(t *testing.T) {
	pool := worker.NewPool("analysis", 1, 1)
	handler := testServer(func(srv *api.Server) {
		srv.AnalysisPool = pool
		srv.GameService = &stubGameService{
			get: func(ctx context.Context, id int64) (*models.Game, error) {
				return &models.Game{ID: id}, nil
			},
		}
	})

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/games/5/analyze", nil))
	require.Equal(t, http.StatusAccepted, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/games/6/analyze", nil))
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

func TestWeaknessesEndpoint(t *testing.T) {
	handler := testServer(func(srv *api.Server) {
		srv.ReportService = &stubReportService{
			report: func(ctx context.Context, profileID int64) (models.PlayerReport, error) {
				return models.PlayerReport{
					Weaknesses: models.WeaknessReport{InsufficientData: true, Reason: "not enough analyzed games"},
				}, nil
			},
		}
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profiles/1/weaknesses", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var weaknesses models.WeaknessReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &weaknesses))
	assert.True(t, weaknesses.InsufficientData)
}

func TestHealth(t *testing.T) {
	handler := testServer(nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
