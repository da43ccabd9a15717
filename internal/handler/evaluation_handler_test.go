package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/middleware"
	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/seed"
	"github.com/adityawrmn/campus-eval-api/internal/service"
)

type evaluationRepoMock struct {
	appended []*models.Evaluation
}

func (m *evaluationRepoMock) ListByKind(ctx context.Context, kind models.EvaluationKind) ([]models.Evaluation, error) {
	return nil, nil
}

func (m *evaluationRepoMock) ExistsFor(ctx context.Context, kind models.EvaluationKind, respondentID, subjectID, periodID int64) (bool, error) {
	return false, nil
}

func (m *evaluationRepoMock) AppendIfAbsent(ctx context.Context, evaluation *models.Evaluation) error {
	m.appended = append(m.appended, evaluation)
	return nil
}

type lecturerFinderMock struct {
	lecturer *models.Lecturer
}

func (m *lecturerFinderMock) FindByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	return m.lecturer, nil
}

type facilityFinderMock struct{}

func (m *facilityFinderMock) FindByID(ctx context.Context, id int64) (*models.Facility, error) {
	return nil, nil
}

type activePeriodMock struct {
	period *models.Period
}

func (m *activePeriodMock) FindActive(ctx context.Context) (*models.Period, error) {
	return m.period, nil
}

func lecturerAnswersBody(t *testing.T, subjectID int64) []byte {
	t.Helper()
	answers := make([]map[string]interface{}, 0, seed.QuestionCount(models.KindLecturer))
	for id := range seed.KnownQuestionIDs(models.KindLecturer) {
		answers = append(answers, map[string]interface{}{"question_id": id, "rating": 4})
	}
	body, err := json.Marshal(map[string]interface{}{
		"subject_id": subjectID,
		"answers":    answers,
		"comment":    "Penjelasan mudah dipahami",
	})
	require.NoError(t, err)
	return body
}

func newEvaluationTestHandler(repo *evaluationRepoMock) *EvaluationHandler {
	lecturers := &lecturerFinderMock{lecturer: &models.Lecturer{
		ID:       5,
		NIP:      "197805152005011001",
		FullName: "Dr. Budi Santoso",
		Courses:  []string{"Algoritma"},
		Status:   models.StatusActive,
	}}
	periods := &activePeriodMock{period: &models.Period{
		ID:       3,
		Status:   models.PeriodActive,
		Deadline: time.Now().Add(72 * time.Hour),
	}}
	svc := service.NewEvaluationService(repo, lecturers, &facilityFinderMock{}, periods, nil, nil, 0)
	return NewEvaluationHandler(svc, service.NewQuestionService())
}

func TestEvaluationHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &evaluationRepoMock{}
	handler := newEvaluationTestHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/evaluate/lecturer", bytes.NewReader(lecturerAnswersBody(t, 5)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "lecturer"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 9, NIM: "2301010001", Role: models.RoleStudent})

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.appended, 1)

	var envelope struct {
		Data models.Evaluation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Dr. Budi Santoso", envelope.Data.SubjectName)
	assert.Equal(t, int64(3), envelope.Data.PeriodID)
	assert.Equal(t, int64(9), envelope.Data.RespondentID)
}

func TestEvaluationHandlerSubmitUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEvaluationTestHandler(&evaluationRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/evaluate/campus", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "campus"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 9, Role: models.RoleStudent})

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluationHandlerSubmitWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEvaluationTestHandler(&evaluationRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/evaluate/lecturer", bytes.NewReader(lecturerAnswersBody(t, 5)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "lecturer"}}

	handler.Submit(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEvaluationHandlerHasSubmittedBadSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEvaluationTestHandler(&evaluationRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/evaluate/lecturer/submitted", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "lecturer"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 9, Role: models.RoleStudent})

	handler.HasSubmitted(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
