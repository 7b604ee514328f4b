package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"career-management/internal/models"
	"career-management/internal/services"
	"career-management/internal/workflow"
)

// actorFromContext собирает данные аутентифицированного пользователя из
// контекста Gin (установлены JWT middleware)
func actorFromContext(c *gin.Context) (workflow.Actor, bool) {
	userID, okUser := c.Get("userID")
	employeeID, okEmployee := c.Get("employeeID")
	role, okRole := c.Get("role")
	if !okUser || !okEmployee || !okRole {
		return workflow.Actor{}, false
	}
	return workflow.Actor{
		UserID:     userID.(int),
		EmployeeID: employeeID.(int),
		Role:       role.(string),
	}, true
}

// statusFromError переводит типизированные ошибки документооборота в HTTP
// статусы. Неожиданные ошибки логируются и не раскрываются клиенту.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, workflow.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, workflow.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, workflow.ErrValidation),
		errors.Is(err, workflow.ErrUnknownRequestType),
		errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error()
	}
	log.Printf("[Handler] Unexpected error: %v", err)
	return http.StatusInternalServerError, "внутренняя ошибка сервера"
}

// AppHandler объединяет обработчики для разных частей приложения
type AppHandler struct {
	requestService      *services.RequestService
	userService         *services.UserService
	employeeService     *services.EmployeeService
	notificationService *services.NotificationService
}

// NewAppHandler создает новый экземпляр AppHandler
func NewAppHandler(
	rs *services.RequestService,
	us *services.UserService,
	es *services.EmployeeService,
	ns *services.NotificationService,
) *AppHandler {
	return &AppHandler{
		requestService:      rs,
		userService:         us,
		employeeService:     es,
		notificationService: ns,
	}
}

// GetMyProfile обработчик для получения профиля текущего пользователя
func (h *AppHandler) GetMyProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	profile, err := h.userService.GetProfile(actor.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения профиля: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMyNotifications обработчик для получения уведомлений текущего пользователя
func (h *AppHandler) GetMyNotifications(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	notifications, err := h.notificationService.GetUserNotifications(actor.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения уведомлений: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead обработчик для отметки уведомления прочитанным
func (h *AppHandler) MarkNotificationRead(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return
	}

	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID уведомления"})
		return
	}

	if err := h.notificationService.MarkNotificationRead(notificationID, actor.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Уведомление отмечено прочитанным"})
}

// GetEmployees обработчик для получения списка сотрудников (HR/админ)
func (h *AppHandler) GetEmployees(c *gin.Context) {
	employees, err := h.employeeService.GetAllEmployees()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения списка сотрудников: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetEmployeeByID обработчик для получения сотрудника по ID (HR/админ)
func (h *AppHandler) GetEmployeeByID(c *gin.Context) {
	employeeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID сотрудника"})
		return
	}

	employee, err := h.employeeService.GetEmployeeByID(employeeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, employee)
}

// CreateEmployee обработчик для создания кадровой карточки (HR/админ)
func (h *AppHandler) CreateEmployee(c *gin.Context) {
	var employee models.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if err := h.employeeService.CreateEmployee(&employee); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee обработчик для обновления кадровой карточки (HR/админ)
func (h *AppHandler) UpdateEmployee(c *gin.Context) {
	employeeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID сотрудника"})
		return
	}

	var updateData models.EmployeeUpdateDTO
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if err := h.employeeService.UpdateEmployee(employeeID, &updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Данные сотрудника обновлены"})
}

// GetDepartments обработчик для получения справочника подразделений
func (h *AppHandler) GetDepartments(c *gin.Context) {
	departments, err := h.employeeService.GetDepartments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения списка подразделений: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, departments)
}

// GetPositions обработчик для получения справочника должностей
func (h *AppHandler) GetPositions(c *gin.Context) {
	positions, err := h.employeeService.GetPositions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения списка должностей: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, positions)
}

// AuthHandler - структура для обработчиков аутентификации
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler - конструктор для AuthHandler
func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: as,
	}
}

// Login - обработчик для входа пользователя
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	token, user, err := h.authService.Login(credentials.Login, credentials.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user, // Пароль удален в сервисе перед возвратом
	})
}

// Register - обработчик для регистрации нового пользователя
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Login           string `json:"login" binding:"required"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
		FullName        string `json:"full_name" binding:"required"`
		EmployeeID      *int   `json:"employee_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные", "details": err.Error()})
		return
	}

	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Пароли не совпадают"})
		return
	}

	user, err := h.authService.Register(input.Login, input.Password, input.FullName, input.EmployeeID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()}) // 409 для дубликата логина
		return
	}

	c.JSON(http.StatusCreated, user)
}
