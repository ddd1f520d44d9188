package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hossamkoky599/crowdfund/internal/auth"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
)

// ContextUserKey is where the authenticated user lands in the gin context.
const ContextUserKey = "user"

// UserAuth authenticates requests with a bearer JWT, loads the user row and
// sets it in the context. Core operations receive the acting identity as an
// explicit argument from here on; nothing reads ambient auth state below the
// handler layer.
func UserAuth(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		userID, err := auth.ParseToken(cfg, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		var user model.User
		if err := db.WithContext(c.Request.Context()).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("account not activated"))
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the gin context.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
