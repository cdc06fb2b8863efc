package middleware

import (
	"context"
	"errors"
	"net/http"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminAuthenticator confirms that an admin account is still usable.
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, id int64) (*model.AdminUser, error)
}

// RequireAdmin checks the admin_session cookie and re-reads the account on
// every request, so disabling or deleting an admin ends their sessions.
func RequireAdmin(cookies *SessionCookies, admins AdminAuthenticator, log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "RequireAdmin")
	return func(c *gin.Context) {
		sess, ok := cookies.Admin(c)
		if !ok {
			cookies.ClearAdmin(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "未授权"})
			return
		}

		admin, err := admins.Authenticate(c.Request.Context(), sess.AdminID)
		if err != nil && !errors.Is(err, service.ErrAdminNotFound) {
			log.Error("failed to authenticate admin", "admin_id", sess.AdminID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "msg": "服务器错误"})
			return
		}
		if err != nil {
			log.Warn("admin session rejected", "admin_id", sess.AdminID, "error", err)
			cookies.ClearAdmin(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "登录已失效，请重新登录"})
			return
		}

		sess.Username = admin.Username
		c.Set(adminSessionKey, sess)
		c.Next()
	}
}
