package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"career-management/internal/models"
	"career-management/internal/workflow"
)

// CreateRequest обработчик для создания кадровой заявки
func (h *AppHandler) CreateRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	var dto models.CreateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка чтения данных: " + err.Error()})
		return
	}

	request, err := h.requestService.CreateRequest(&dto, actor)
	if err != nil {
		status, message := statusFromError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetRequest обработчик для получения заявки по ID
func (h *AppHandler) GetRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID заявки"})
		return
	}

	request, err := h.requestService.GetByID(requestID, actor)
	if err != nil {
		status, message := statusFromError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusOK, request)
}

// GetMyRequests обработчик для получения собственных заявок
func (h *AppHandler) GetMyRequests(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	requests, err := h.requestService.ListByRequester(actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения заявок: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetPendingRequests обработчик для получения заявок, ожидающих решения
// текущего пользователя
func (h *AppHandler) GetPendingRequests(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	requests, err := h.requestService.ListPendingFor(actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения заявок: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ApproveRequest обработчик для согласования заявки. Этап согласования
// (руководитель или HR) передается в теле запроса.
func (h *AppHandler) ApproveRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID заявки"})
		return
	}

	var input struct {
		AsRole  string `json:"as_role" binding:"required"` // 'MANAGER' или 'HR'
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	request, err := h.requestService.Approve(requestID, actor, input.AsRole, input.Comment)
	if err != nil {
		status, message := statusFromError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusOK, request)
}

// RejectRequest обработчик для отклонения заявки
func (h *AppHandler) RejectRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID заявки"})
		return
	}

	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Необходимо указать причину отклонения"})
		return
	}

	request, err := h.requestService.Reject(requestID, actor, input.Reason)
	if err != nil {
		status, message := statusFromError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusOK, request)
}

// CancelRequest обработчик для отмены заявки подателем
func (h *AppHandler) CancelRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID заявки"})
		return
	}

	request, err := h.requestService.Cancel(requestID, actor)
	if err != nil {
		status, message := statusFromError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusOK, request)
}

// GetRequestTypes отдает зарегистрированные типы заявок для форм клиента
func (h *AppHandler) GetRequestTypes(c *gin.Context) {
	tags := []string{models.RequestTypePositionChange, models.RequestTypeDepartmentChange}
	result := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		result = append(result, gin.H{"tag": tag, "title": workflow.VariantTitle(tag)})
	}
	c.JSON(http.StatusOK, result)
}
