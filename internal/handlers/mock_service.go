package handlers

import (
	"context"
	"net/http"

	"greenhouse_dashboard/internal/models"
	"greenhouse_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser    *models.User
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (*models.User, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpUser, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockGreenhouse implements service.Greenhouse with settable responses and
// call counters.
type mockGreenhouse struct {
	status    map[string]any
	statusErr error

	latest    map[string]any
	latestErr error

	logRecords []models.LogRecord
	logsErr    error

	records    map[models.StatType][]models.TimeseriesRecord
	recordsErr error

	series map[string]service.SeriesInfo

	statusCalls  int
	latestCalls  int
	logsCalls    int
	historyCalls map[models.StatType]int
	lastLatest   models.StatType

	resetStatsDays int
	resetLogsLevel models.LogLevel
	resetLogsDays  int
	resetStatsHit  int
	resetLogsHit   int
}

func (m *mockGreenhouse) StatusNow(ctx context.Context) (map[string]any, error) {
	m.statusCalls++
	return m.status, m.statusErr
}

func (m *mockGreenhouse) LatestOf(ctx context.Context, stat models.StatType) (map[string]any, error) {
	m.latestCalls++
	m.lastLatest = stat
	return m.latest, m.latestErr
}

func (m *mockGreenhouse) Logs(ctx context.Context) ([]models.LogRecord, error) {
	m.logsCalls++
	return m.logRecords, m.logsErr
}

func (m *mockGreenhouse) history(stat models.StatType) ([]models.TimeseriesRecord, error) {
	if m.historyCalls == nil {
		m.historyCalls = make(map[models.StatType]int)
	}
	m.historyCalls[stat]++
	if m.recordsErr != nil {
		return nil, m.recordsErr
	}
	return m.records[stat], nil
}

func (m *mockGreenhouse) Temperature(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return m.history(models.StatTemperature)
}
func (m *mockGreenhouse) Humidity(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return m.history(models.StatHumidity)
}
func (m *mockGreenhouse) Fan(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return m.history(models.StatFan)
}
func (m *mockGreenhouse) Water(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return m.history(models.StatWater)
}

func (m *mockGreenhouse) ResetLogs(level models.LogLevel, lookupDays int) {
	m.resetLogsHit++
	m.resetLogsLevel = level
	m.resetLogsDays = lookupDays
}

func (m *mockGreenhouse) ResetStats(lookupDays int) {
	m.resetStatsHit++
	m.resetStatsDays = lookupDays
}

func (m *mockGreenhouse) SeriesState() map[string]service.SeriesInfo {
	if m.series != nil {
		return m.series
	}
	return map[string]service.SeriesInfo{}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
