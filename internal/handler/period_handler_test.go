package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	"github.com/adityawrmn/campus-eval-api/internal/service"
)

type periodRepoMock struct {
	periods map[int64]*models.Period
	nextID  int64
	deleted []int64
}

func newPeriodRepoMock() *periodRepoMock {
	return &periodRepoMock{periods: make(map[int64]*models.Period), nextID: 1}
}

func (m *periodRepoMock) List(ctx context.Context) ([]models.Period, error) {
	out := make([]models.Period, 0, len(m.periods))
	for _, p := range m.periods {
		out = append(out, *p)
	}
	return out, nil
}

func (m *periodRepoMock) FindByID(ctx context.Context, id int64) (*models.Period, error) {
	p, ok := m.periods[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *periodRepoMock) FindActive(ctx context.Context) (*models.Period, error) {
	for _, p := range m.periods {
		if p.Status == models.PeriodActive {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *periodRepoMock) Create(ctx context.Context, period *models.Period) error {
	period.ID = m.nextID
	m.nextID++
	clone := *period
	m.periods[period.ID] = &clone
	return nil
}

func (m *periodRepoMock) Update(ctx context.Context, period *models.Period) error {
	if _, ok := m.periods[period.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	clone := *period
	m.periods[period.ID] = &clone
	return nil
}

func (m *periodRepoMock) SetActive(ctx context.Context, id int64) (*models.Period, error) {
	target, ok := m.periods[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	for _, p := range m.periods {
		if p.Status == models.PeriodActive {
			p.Status = models.PeriodInactive
		}
	}
	target.Status = models.PeriodActive
	clone := *target
	return &clone, nil
}

func (m *periodRepoMock) Delete(ctx context.Context, id int64) error {
	if _, ok := m.periods[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.periods, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newPeriodTestHandler(repo *periodRepoMock) *PeriodHandler {
	return NewPeriodHandler(service.NewPeriodService(repo, nil, nil))
}

func validPeriodBody() []byte {
	body, _ := json.Marshal(map[string]string{
		"name":                "Semester Ganjil 2024/2025",
		"academic_year":       "2024/2025",
		"semester":            "Ganjil",
		"start_date":          "2024-09-01",
		"end_date":            "2025-01-31",
		"evaluation_deadline": "2024-12-30",
	})
	return body
}

func TestPeriodHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newPeriodRepoMock()
	handler := newPeriodTestHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/periods", bytes.NewReader(validPeriodBody()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Period `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Semester Ganjil 2024/2025", envelope.Data.Name)
	assert.Equal(t, models.PeriodInactive, envelope.Data.Status)
}

func TestPeriodHandlerCreateInvalidDates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPeriodTestHandler(newPeriodRepoMock())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]string{
		"name":                "Broken",
		"academic_year":       "2024/2025",
		"semester":            "Ganjil",
		"start_date":          "2025-01-31",
		"end_date":            "2024-09-01",
		"evaluation_deadline": "2024-12-30",
	})
	req, _ := http.NewRequest(http.MethodPost, "/periods", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPeriodHandlerDeleteActiveForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newPeriodRepoMock()
	repo.periods[7] = &models.Period{ID: 7, Name: "Current", Status: models.PeriodActive}
	handler := newPeriodTestHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/periods/7", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.Delete(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, repo.deleted)
}

func TestPeriodHandlerActiveNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPeriodTestHandler(newPeriodRepoMock())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/active-period", nil)
	c.Request = req

	handler.Active(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
