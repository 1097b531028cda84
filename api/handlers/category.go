package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invoxa/invoice-manager/internal/service/category"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

type CategoryHandler struct {
	service category.Service
	logger  logger.Logger
}

type nameInput struct {
	Name string `json:"name" binding:"required"`
}

func NewCategoryHandler(service category.Service, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, category.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Category not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get category", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cat, err := h.service.Create(c.Request.Context(), input.Name)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to create category", err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cat, err := h.service.Update(c.Request.Context(), c.Param("id"), input.Name)
	if errors.Is(err, category.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Category not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to update category", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, category.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Category not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to delete category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (h *CategoryHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(status, response)
}
