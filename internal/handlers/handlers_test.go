package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/XavierBriggs/paddock/internal/db"
	"github.com/XavierBriggs/paddock/internal/handlers"
	"github.com/XavierBriggs/paddock/pkg/models"
	"github.com/go-chi/chi/v5"
)

// MockStore implements db.Store for testing
type MockStore struct {
	calendar    []models.Round
	entries     []models.ResultEntry
	driverMeta  map[string]models.EntityMeta
	teamMeta    map[string]models.EntityMeta
	drivers     []models.Driver
	seasons     []int
	shouldError bool
}

func (m *MockStore) SeasonCalendar(ctx context.Context, year int) ([]models.Round, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	return m.calendar, nil
}

func (m *MockStore) SeasonEntries(ctx context.Context, year int) ([]models.ResultEntry, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	return m.entries, nil
}

func (m *MockStore) DriverMeta(ctx context.Context, year int) (map[string]models.EntityMeta, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	return m.driverMeta, nil
}

func (m *MockStore) TeamMeta(ctx context.Context) (map[string]models.EntityMeta, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	return m.teamMeta, nil
}

func (m *MockStore) FindDriverByName(ctx context.Context, name string) (*models.Driver, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	for _, d := range m.drivers {
		if d.ID == name || strings.EqualFold(d.DisplayName, name) {
			return &d, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MockStore) DriverSeasons(ctx context.Context, driverID string) ([]int, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	if len(m.seasons) == 0 {
		return nil, db.ErrNotFound
	}
	return m.seasons, nil
}

func (m *MockStore) Seasons(ctx context.Context) ([]int, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	return m.seasons, nil
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	if m.shouldError {
		return context.DeadlineExceeded
	}
	return nil
}

func pos(p int) *int { return &p }

// seasonStore builds a mock with a two-round 2024 season: hamilton wins both
// races, verstappen finishes second in both.
func seasonStore() *MockStore {
	return &MockStore{
		calendar: []models.Round{
			{RoundNumber: 1, EventName: "Bahrain Grand Prix", Country: "Bahrain"},
			{RoundNumber: 2, EventName: "Saudi Arabian Grand Prix", Country: "Saudi Arabia"},
		},
		entries: []models.ResultEntry{
			{DriverID: "hamilton", TeamID: "mercedes", RoundNumber: 1, SessionKind: models.SessionRace, FinishPosition: pos(1)},
			{DriverID: "verstappen", TeamID: "red_bull", RoundNumber: 1, SessionKind: models.SessionRace, FinishPosition: pos(2)},
			{DriverID: "hamilton", TeamID: "mercedes", RoundNumber: 2, SessionKind: models.SessionRace, FinishPosition: pos(1)},
			{DriverID: "verstappen", TeamID: "red_bull", RoundNumber: 2, SessionKind: models.SessionRace, FinishPosition: pos(2)},
			{DriverID: "hamilton", TeamID: "mercedes", RoundNumber: 1, SessionKind: models.SessionQualifying, FinishPosition: pos(1)},
			{DriverID: "verstappen", TeamID: "red_bull", RoundNumber: 1, SessionKind: models.SessionQualifying, FinishPosition: pos(2)},
		},
		driverMeta: map[string]models.EntityMeta{
			"hamilton":   {DisplayName: "Lewis Hamilton", Abbreviation: "HAM", TeamName: "Mercedes"},
			"verstappen": {DisplayName: "Max Verstappen", Abbreviation: "VER", TeamName: "Red Bull"},
		},
		teamMeta: map[string]models.EntityMeta{
			"mercedes": {DisplayName: "Mercedes"},
			"red_bull": {DisplayName: "Red Bull"},
		},
		drivers: []models.Driver{
			{ID: "hamilton", DisplayName: "Lewis Hamilton", Abbreviation: "HAM"},
			{ID: "verstappen", DisplayName: "Max Verstappen", Abbreviation: "VER"},
		},
		seasons: []int{2024, 2023},
	}
}

func standingsRouter(h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/standings/{year}", h.GetSeasonStandings)
	r.Get("/standings/{year}/drivers", h.GetDriverStandings)
	r.Get("/standings/{year}/constructors", h.GetConstructorStandings)
	r.Get("/schedule/{year}", h.GetSchedule)
	r.Get("/drivers/{name}", h.GetDriverDetail)
	r.Get("/drivers/{name}/seasons", h.GetDriverSeasons)
	return r
}

func TestHealthCheck_Success(t *testing.T) {
	handler := handlers.NewHandler(&MockStore{}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %v", response["status"])
	}
}

func TestHealthCheck_DatabaseUnhealthy(t *testing.T) {
	handler := handlers.NewHandler(&MockStore{shouldError: true}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.HealthCheck(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestGetSeasons_Success(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)

	req := httptest.NewRequest("GET", "/api/v1/seasons", nil)
	w := httptest.NewRecorder()

	handler.GetSeasons(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	seasons := response["seasons"].([]interface{})
	if len(seasons) != 2 {
		t.Errorf("expected 2 seasons, got %d", len(seasons))
	}
}

func TestGetSeasonStandings_Success(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/standings/2024", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var report models.SeasonReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if report.Year != 2024 {
		t.Errorf("expected year 2024, got %d", report.Year)
	}
	if len(report.DriverResults) != 2 {
		t.Fatalf("expected 2 driver rows, got %d", len(report.DriverResults))
	}
	if report.DriverResults[0].EntityID != "hamilton" {
		t.Errorf("expected hamilton to lead, got %s", report.DriverResults[0].EntityID)
	}
	if report.DriverResults[0].TotalPoints != 50 {
		t.Errorf("expected 50 points for the leader, got %v", report.DriverResults[0].TotalPoints)
	}
	if len(report.RaceMetadata) != 2 {
		t.Errorf("expected metadata for 2 rounds, got %d", len(report.RaceMetadata))
	}
	if report.RaceMetadata[0].RaceWinner != "HAM" {
		t.Errorf("expected race winner HAM, got %q", report.RaceMetadata[0].RaceWinner)
	}
}

func TestGetSeasonStandings_BadYear(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/standings/abc", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetSeasonStandings_UnknownYear(t *testing.T) {
	handler := handlers.NewHandler(&MockStore{}, nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/standings/1949", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Code != http.StatusNotFound {
		t.Errorf("expected error code 404, got %d", errResp.Code)
	}
}

func TestGetDriverStandings_Success(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/standings/2024/drivers", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	standings := response["standings"].([]interface{})
	if len(standings) != 2 {
		t.Errorf("expected 2 standings rows, got %d", len(standings))
	}
}

func TestGetConstructorStandings_Success(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/standings/2024/constructors", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	standings := response["standings"].([]interface{})
	if len(standings) != 2 {
		t.Errorf("expected 2 constructor rows, got %d", len(standings))
	}

	top := standings[0].(map[string]interface{})
	if top["entityId"] != "mercedes" {
		t.Errorf("expected mercedes to lead constructors, got %v", top["entityId"])
	}
}

func TestGetSchedule_Success(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/schedule/2024", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	rounds := response["rounds"].([]interface{})
	if len(rounds) != 2 {
		t.Errorf("expected 2 rounds, got %d", len(rounds))
	}
}

func TestGetSchedule_UnknownYear(t *testing.T) {
	handler := handlers.NewHandler(&MockStore{}, nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/schedule/1949", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetDriverDetail_Success(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/drivers/hamilton?year=2024", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var detail models.DriverSeasonDetail
	if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if detail.Driver.ID != "hamilton" {
		t.Errorf("expected driver hamilton, got %s", detail.Driver.ID)
	}
	if detail.ChampionshipPosition != 1 {
		t.Errorf("expected championship position 1, got %d", detail.ChampionshipPosition)
	}
	if detail.TotalPoints != 50 {
		t.Errorf("expected 50 points, got %v", detail.TotalPoints)
	}
	if detail.Wins != 2 {
		t.Errorf("expected 2 wins, got %d", detail.Wins)
	}
	if detail.Poles != 1 {
		t.Errorf("expected 1 pole, got %d", detail.Poles)
	}
	if len(detail.RaceResults) != 2 {
		t.Errorf("expected 2 race results, got %d", len(detail.RaceResults))
	}
}

func TestGetDriverDetail_NotFound(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/drivers/fangio?year=2024", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetDriverSeasons_Success(t *testing.T) {
	handler := handlers.NewHandler(seasonStore(), nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/drivers/verstappen/seasons", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["latestYear"].(float64) != 2024 {
		t.Errorf("expected latestYear 2024, got %v", response["latestYear"])
	}
	if response["debutYear"].(float64) != 2023 {
		t.Errorf("expected debutYear 2023, got %v", response["debutYear"])
	}
}

// emptySeasonsStore returns an empty season list without an error, which the
// handler must treat the same as a missing driver.
type emptySeasonsStore struct {
	MockStore
}

func (s *emptySeasonsStore) DriverSeasons(ctx context.Context, driverID string) ([]int, error) {
	return []int{}, nil
}

func TestGetDriverSeasons_EmptyListIsNotFound(t *testing.T) {
	store := &emptySeasonsStore{MockStore: *seasonStore()}
	handler := handlers.NewHandler(store, nil)
	r := standingsRouter(handler)

	req := httptest.NewRequest("GET", "/drivers/verstappen/seasons", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestErrorHandling(t *testing.T) {
	handler := handlers.NewHandler(&MockStore{shouldError: true}, nil)
	r := standingsRouter(handler)

	tests := []struct {
		name string
		path string
	}{
		{"standings error", "/standings/2024"},
		{"driver standings error", "/standings/2024/drivers"},
		{"schedule error", "/schedule/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", w.Code)
			}

			var errResp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}

			if errResp.Code != http.StatusInternalServerError {
				t.Errorf("expected error code 500, got %d", errResp.Code)
			}
		})
	}
}
