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
	"github.com/invoxa/invoice-manager/internal/service/category"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

type stubCategoryService struct {
	categories map[string]*models.Category
}

func (s *stubCategoryService) List(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, category.ErrNotFound
	}
	return c, nil
}

func (s *stubCategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	c := &models.Category{ID: name, Name: name}
	s.categories[c.ID] = c
	return c, nil
}

func (s *stubCategoryService) Update(ctx context.Context, id, name string) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, category.ErrNotFound
	}
	c.Name = name
	return c, nil
}

func (s *stubCategoryService) Delete(ctx context.Context, id string) error {
	if _, ok := s.categories[id]; !ok {
		return category.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func newCategoryRouter(svc category.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCategoryHandler(svc, logger.NewTestLogger())
	r.PUT("/categories/:id", h.Update)
	return r
}

func TestCategoryUpdateRenames(t *testing.T) {
	svc := &stubCategoryService{categories: map[string]*models.Category{
		"cat-1": {ID: "cat-1", Name: "Hardware"},
	}}
	r := newCategoryRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/categories/cat-1",
		strings.NewReader(`{"name":"IT Hardware"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "cat-1", got.ID)
	assert.Equal(t, "IT Hardware", got.Name)
	assert.Equal(t, "IT Hardware", svc.categories["cat-1"].Name)
}

func TestCategoryUpdateUnknownID(t *testing.T) {
	svc := &stubCategoryService{categories: map[string]*models.Category{}}
	r := newCategoryRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/categories/missing",
		strings.NewReader(`{"name":"Anything"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryUpdateMissingName(t *testing.T) {
	svc := &stubCategoryService{categories: map[string]*models.Category{
		"cat-1": {ID: "cat-1", Name: "Hardware"},
	}}
	r := newCategoryRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/categories/cat-1",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Hardware", svc.categories["cat-1"].Name)
}
