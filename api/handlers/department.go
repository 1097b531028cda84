package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invoxa/invoice-manager/internal/service/department"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

type DepartmentHandler struct {
	service department.Service
	logger  logger.Logger
}

func NewDepartmentHandler(service department.Service, logger logger.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list departments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

func (h *DepartmentHandler) Get(c *gin.Context) {
	dep, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, department.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Department not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get department", err)
		return
	}
	c.JSON(http.StatusOK, dep)
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dep, err := h.service.Create(c.Request.Context(), input.Name)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to create department", err)
		return
	}
	c.JSON(http.StatusCreated, dep)
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dep, err := h.service.Update(c.Request.Context(), c.Param("id"), input.Name)
	if errors.Is(err, department.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Department not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to update department", err)
		return
	}
	c.JSON(http.StatusOK, dep)
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, department.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Department not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to delete department", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted"})
}

func (h *DepartmentHandler) handleError(c *gin.Context, status int, message string, err error) {
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
