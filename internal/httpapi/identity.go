package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"

	identityKey = "identity"
)

// Identity кто обращается к API. Только для разграничения маршрутов.
type Identity struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// Claims содержимое токена: sub это id студента
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func parseToken(secret, tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return Identity{}, errors.New("invalid token")
	}

	role := claims.Role
	if role == "" {
		role = RoleStudent
	}
	return Identity{StudentID: claims.Subject, Name: claims.Name, Role: role}, nil
}

// Identify с секретом требует bearer токен (или ?token= для WebSocket),
// без секрета доверяет заголовкам X-Student-ID/X-Student-Name/X-Role
// (или ?student= для WebSocket)
func Identify(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id Identity
		if secret != "" {
			tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if tokenString == "" {
				tokenString = c.Query("token")
			}
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
				return
			}
			parsed, err := parseToken(secret, tokenString)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			id = parsed
		} else {
			id = Identity{
				StudentID: c.GetHeader("X-Student-ID"),
				Name:      c.GetHeader("X-Student-Name"),
				Role:      c.GetHeader("X-Role"),
			}
			if id.StudentID == "" {
				id.StudentID = c.Query("student")
			}
			if id.StudentID == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Student identity required"})
				return
			}
			if id.Role == "" {
				id.Role = RoleStudent
			}
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRole пропускает только указанную роль
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identityFrom(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
