package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoxa/invoice-manager/internal/models"
	"github.com/invoxa/invoice-manager/internal/service/department"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

type stubDepartmentService struct {
	departments map[string]*models.Department
}

func (s *stubDepartmentService) List(ctx context.Context) ([]models.Department, error) {
	out := make([]models.Department, 0, len(s.departments))
	for _, d := range s.departments {
		out = append(out, *d)
	}
	return out, nil
}

func (s *stubDepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	d, ok := s.departments[id]
	if !ok {
		return nil, department.ErrNotFound
	}
	return d, nil
}

func (s *stubDepartmentService) Create(ctx context.Context, name string) (*models.Department, error) {
	d := &models.Department{ID: name, Name: name}
	s.departments[d.ID] = d
	return d, nil
}

func (s *stubDepartmentService) Update(ctx context.Context, id, name string) (*models.Department, error) {
	d, ok := s.departments[id]
	if !ok {
		return nil, department.ErrNotFound
	}
	d.Name = name
	return d, nil
}

func (s *stubDepartmentService) Delete(ctx context.Context, id string) error {
	if _, ok := s.departments[id]; !ok {
		return department.ErrNotFound
	}
	delete(s.departments, id)
	return nil
}

func TestDepartmentUpdateRenames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubDepartmentService{departments: map[string]*models.Department{
		"dep-1": {ID: "dep-1", Name: "Engineering"},
	}}
	r := gin.New()
	h := NewDepartmentHandler(svc, logger.NewTestLogger())
	r.PUT("/departments/:id", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/departments/dep-1",
		strings.NewReader(`{"name":"Platform Engineering"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.Department
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Platform Engineering", got.Name)
	assert.Equal(t, "Platform Engineering", svc.departments["dep-1"].Name)
}

func TestDepartmentUpdateUnknownID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubDepartmentService{departments: map[string]*models.Department{}}
	r := gin.New()
	h := NewDepartmentHandler(svc, logger.NewTestLogger())
	r.PUT("/departments/:id", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/departments/missing",
		strings.NewReader(`{"name":"Anything"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
