package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rizkia-dev/study-planner-api/internal/dto"
	"github.com/rizkia-dev/study-planner-api/internal/middleware"
	"github.com/rizkia-dev/study-planner-api/internal/models"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

type scheduleServiceMock struct {
	generateReq   *dto.GenerateScheduleRequest
	generateResp  *dto.GenerateScheduleResponse
	updateReq     *dto.UpdateSessionRequest
	session       *models.StudySession
	sessions      []models.StudySession
	deletedID     string
	lastUserID    string
	err           error
}

func (m *scheduleServiceMock) Generate(ctx context.Context, userID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	m.lastUserID = userID
	m.generateReq = &req
	return m.generateResp, m.err
}

func (m *scheduleServiceMock) List(ctx context.Context, userID string, query dto.ScheduleListQuery) ([]models.StudySession, *models.Pagination, error) {
	m.lastUserID = userID
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.sessions, &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: len(m.sessions)}, nil
}

func (m *scheduleServiceMock) UpdateSession(ctx context.Context, userID, sessionID string, req dto.UpdateSessionRequest) (*models.StudySession, error) {
	m.lastUserID = userID
	m.updateReq = &req
	return m.session, m.err
}

func (m *scheduleServiceMock) RescheduleSession(ctx context.Context, userID, sessionID string, req dto.RescheduleSessionRequest) (*models.StudySession, error) {
	m.lastUserID = userID
	return m.session, m.err
}

func (m *scheduleServiceMock) DeleteSession(ctx context.Context, userID, sessionID string) error {
	m.lastUserID = userID
	m.deletedID = sessionID
	return m.err
}

func scheduleTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})
	return c, w
}

func TestScheduleHandlerGenerate(t *testing.T) {
	mockSvc := &scheduleServiceMock{generateResp: &dto.GenerateScheduleResponse{GeneratedAt: time.Now()}}
	handler := NewScheduleHandler(mockSvc)
	c, w := scheduleTestContext(t, http.MethodPost, "/schedule/generate", []byte(`{"days":7}`))

	handler.Generate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "user-1", mockSvc.lastUserID)
	require.NotNil(t, mockSvc.generateReq)
	require.Equal(t, 7, mockSvc.generateReq.Days)
}

func TestScheduleHandlerGenerateInvalidBody(t *testing.T) {
	handler := NewScheduleHandler(&scheduleServiceMock{})
	c, w := scheduleTestContext(t, http.MethodPost, "/schedule/generate", []byte(`{"days":"seven"}`))

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerGenerateConflict(t *testing.T) {
	mockSvc := &scheduleServiceMock{err: appErrors.ErrGenerationInFlight}
	handler := NewScheduleHandler(mockSvc)
	c, w := scheduleTestContext(t, http.MethodPost, "/schedule/generate", []byte(`{}`))

	handler.Generate(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestScheduleHandlerList(t *testing.T) {
	mockSvc := &scheduleServiceMock{sessions: []models.StudySession{{ID: "s1"}, {ID: "s2"}}}
	handler := NewScheduleHandler(mockSvc)
	c, w := scheduleTestContext(t, http.MethodGet, "/schedule?status=planned&page=2&limit=10", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "s1")
	require.Contains(t, w.Body.String(), "s2")
}

func TestScheduleHandlerUpdateSession(t *testing.T) {
	mockSvc := &scheduleServiceMock{session: &models.StudySession{ID: "s1", Status: models.SessionCompleted}}
	handler := NewScheduleHandler(mockSvc)
	c, w := scheduleTestContext(t, http.MethodPatch, "/schedule/sessions/s1", []byte(`{"status":"completed","productivityRating":4}`))
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	handler.UpdateSession(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.updateReq)
	require.NotNil(t, mockSvc.updateReq.ProductivityRating)
	require.Equal(t, 4, *mockSvc.updateReq.ProductivityRating)
}

func TestScheduleHandlerUpdateSessionNotFound(t *testing.T) {
	mockSvc := &scheduleServiceMock{err: appErrors.ErrNotFound}
	handler := NewScheduleHandler(mockSvc)
	c, w := scheduleTestContext(t, http.MethodPatch, "/schedule/sessions/missing", []byte(`{"status":"completed"}`))
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.UpdateSession(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerRescheduleConflict(t *testing.T) {
	mockSvc := &scheduleServiceMock{err: appErrors.ErrConflict}
	handler := NewScheduleHandler(mockSvc)
	body := []byte(`{"startTime":"2025-03-03T09:00:00Z","endTime":"2025-03-03T10:00:00Z"}`)
	c, w := scheduleTestContext(t, http.MethodPut, "/schedule/sessions/s1/reschedule", body)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	handler.RescheduleSession(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestScheduleHandlerDeleteSession(t *testing.T) {
	mockSvc := &scheduleServiceMock{}
	handler := NewScheduleHandler(mockSvc)
	c, w := scheduleTestContext(t, http.MethodDelete, "/schedule/sessions/s1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	handler.DeleteSession(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "s1", mockSvc.deletedID)
}
