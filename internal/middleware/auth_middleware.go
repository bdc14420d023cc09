package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go-farmops/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the bearer token (or access_token cookie) signed
// with JWT_SECRET and copies its claims into the gin and request contexts.
// Tokens are issued elsewhere; this service only verifies them.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWithError(c, ErrTokenNotFound, nil)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			abortWithError(c, errObj, nil)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWithError(c, ErrInvalidToken, nil)
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			abortWithError(c, ErrMissingClaim, "user_id")
			return
		}

		farmID, _ := claims["farm_id"].(string)
		if farmID == "" {
			abortWithError(c, ErrMissingClaim, "farm_id")
			return
		}

		employeeID, _ := claims["employee_id"].(string)
		role, _ := claims["role"].(string)

		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		c.Set("farm_id", farmID)
		c.Set("role", role)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, userID)
		ctx = contextutil.WithFarmID(ctx, farmID)
		if reqLogger := contextutil.GetLogger(ctx, nil); reqLogger != nil {
			ctx = contextutil.WithLogger(ctx, reqLogger.With(
				zap.String("user_id", userID),
				zap.String("farm_id", farmID),
			))
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
