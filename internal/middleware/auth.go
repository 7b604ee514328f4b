package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"career-management/internal/models"
)

// JWTAuth - middleware для проверки JWT токена. Кладет в контекст Gin
// userID, employeeID (0, если у пользователя нет кадровой карточки) и role.
func JWTAuth(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Отсутствует заголовок Authorization"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Некорректный формат заголовка Authorization"})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// Парсинг и валидация токена
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// Проверяем метод подписи: убеждаемся, что это HMAC
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		})

		if err != nil {
			errorMsg := "Невалидный токен"
			if errors.Is(err, jwt.ErrTokenExpired) {
				errorMsg = "Срок действия токена истек"
			} else if errors.Is(err, jwt.ErrTokenMalformed) {
				errorMsg = "Некорректный формат токена"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": errorMsg})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Невалидный токен"})
			c.Abort()
			return
		}

		// Проверка срока действия (дополнительно, хотя Parse уже проверяет)
		if expFloat, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(expFloat) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Срок действия токена истек"})
				c.Abort()
				return
			}
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Некорректный формат срока действия токена"})
			c.Abort()
			return
		}

		userIDFloat, okUserID := claims["user_id"].(float64)
		role, okRole := claims["role"].(string)
		if !okUserID || !okRole {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка чтения данных из токена"})
			c.Abort()
			return
		}

		// employee_id опционален: учетная запись может не иметь кадровой карточки
		employeeID := 0
		if employeeIDFloat, okEmployeeID := claims["employee_id"].(float64); okEmployeeID {
			employeeID = int(employeeIDFloat)
		}

		c.Set("userID", int(userIDFloat))
		c.Set("employeeID", employeeID)
		c.Set("role", role)

		c.Next()
	}
}

// AdminOnly - middleware для проверки прав администратора
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Доступ запрещен. Требуются права администратора."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// HROrAdminOnly - middleware для проверки прав HR или администратора
func HROrAdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		hasAccess := exists && (role.(string) == models.RoleHR || role.(string) == models.RoleAdmin)
		if !hasAccess {
			c.JSON(http.StatusForbidden, gin.H{"error": "Доступ запрещен. Требуются права HR или администратора."})
			c.Abort()
			return
		}
		c.Next()
	}
}
