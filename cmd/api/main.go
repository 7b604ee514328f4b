package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"career-management/internal/config"
	"career-management/internal/database"
	"career-management/internal/handlers"
	"career-management/internal/middleware"
	"career-management/internal/repositories"
	"career-management/internal/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация подключения к базе данных
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Создание репозиториев
	userRepo := repositories.NewUserRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)

	// Создание сервисов
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret)
	directoryService := services.NewDirectoryService(employeeRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	effectsService := services.NewEffectsService(employeeRepo, catalogRepo)
	requestService := services.NewRequestService(requestRepo, directoryService, notificationService, effectsService)
	userService := services.NewUserService(userRepo, employeeRepo, catalogRepo)
	employeeService := services.NewEmployeeService(employeeRepo, catalogRepo)

	// Создание обработчиков
	authHandler := handlers.NewAuthHandler(authService)
	appHandler := handlers.NewAppHandler(requestService, userService, employeeService, notificationService)

	// Настройка маршрутизатора Gin
	router := gin.Default()

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Публичные маршруты
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/register", authHandler.Register)
	router.GET("/api/request-types", appHandler.GetRequestTypes) // справочник типов заявок для форм

	// Защищенные маршруты
	api := router.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// Маршруты для работы с кадровыми заявками
		requests := api.Group("/requests")
		{
			requests.POST("", appHandler.CreateRequest)
			requests.GET("/my", appHandler.GetMyRequests)
			requests.GET("/pending", appHandler.GetPendingRequests) // заявки, ожидающие решения текущего пользователя
			requests.GET("/:id", appHandler.GetRequest)
			requests.POST("/:id/approve", appHandler.ApproveRequest)
			requests.POST("/:id/reject", appHandler.RejectRequest)
			requests.POST("/:id/cancel", appHandler.CancelRequest) // отмена доступна только подателю (проверка прав внутри)
		}

		// Маршруты для уведомлений
		notifications := api.Group("/notifications")
		{
			notifications.GET("", appHandler.GetMyNotifications)
			notifications.POST("/:id/read", appHandler.MarkNotificationRead)
		}

		// Справочники доступны всем аутентифицированным
		api.GET("/departments", appHandler.GetDepartments)
		api.GET("/positions", appHandler.GetPositions)

		// Маршруты для HR и администраторов
		admin := api.Group("/admin")
		admin.Use(middleware.HROrAdminOnly())
		{
			employees := admin.Group("/employees")
			{
				employees.GET("", appHandler.GetEmployees)
				employees.GET("/:id", appHandler.GetEmployeeByID)

				// Прямое изменение карточек в обход заявок - только администратор
				employeesMgmt := employees.Group("")
				employeesMgmt.Use(middleware.AdminOnly())
				{
					employeesMgmt.POST("", appHandler.CreateEmployee)
					employeesMgmt.PUT("/:id", appHandler.UpdateEmployee)
				}
			}
		}

		// Маршрут для получения профиля текущего пользователя
		api.GET("/profile", appHandler.GetMyProfile)
	}

	// Запуск сервера
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
