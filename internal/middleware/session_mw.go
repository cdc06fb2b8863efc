package middleware

import (
	"net/http"

	"loan_portal/internal/model"
	"loan_portal/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	UserSessionCookie  = "user_session"
	AdminSessionCookie = "admin_session"

	userSessionKey  = "userSession"
	adminSessionKey = "adminSession"
)

// SessionCookies reads and writes the signed session cookies.
type SessionCookies struct {
	signer *utils.SessionSigner
	secure bool
}

// NewSessionCookies creates a new SessionCookies. secure marks cookies
// HTTPS-only.
func NewSessionCookies(signer *utils.SessionSigner, secure bool) *SessionCookies {
	return &SessionCookies{signer: signer, secure: secure}
}

func (s *SessionCookies) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.secure, true)
}

// SetUser signs sess into the user_session cookie.
func (s *SessionCookies) SetUser(c *gin.Context, sess model.UserSession) error {
	token, err := s.signer.SignUser(sess)
	if err != nil {
		return err
	}
	s.set(c, UserSessionCookie, token, int(s.signer.MaxAge().Seconds()))
	return nil
}

// SetAdmin signs sess into the admin_session cookie.
func (s *SessionCookies) SetAdmin(c *gin.Context, sess model.AdminSession) error {
	token, err := s.signer.SignAdmin(sess)
	if err != nil {
		return err
	}
	s.set(c, AdminSessionCookie, token, int(s.signer.MaxAge().Seconds()))
	return nil
}

func (s *SessionCookies) ClearUser(c *gin.Context)  { s.set(c, UserSessionCookie, "", -1) }
func (s *SessionCookies) ClearAdmin(c *gin.Context) { s.set(c, AdminSessionCookie, "", -1) }

// User returns the verified user session carried by the request, if any.
func (s *SessionCookies) User(c *gin.Context) (*model.UserSession, bool) {
	token, err := c.Cookie(UserSessionCookie)
	if err != nil || token == "" {
		return nil, false
	}
	sess, err := s.signer.ParseUser(token)
	if err != nil {
		return nil, false
	}
	return sess, true
}

// Admin returns the verified admin session carried by the request, if any.
// It does not check that the account is still active.
func (s *SessionCookies) Admin(c *gin.Context) (*model.AdminSession, bool) {
	token, err := c.Cookie(AdminSessionCookie)
	if err != nil || token == "" {
		return nil, false
	}
	sess, err := s.signer.ParseAdmin(token)
	if err != nil {
		return nil, false
	}
	return sess, true
}

// RequireUserSession rejects requests without a valid user_session cookie.
func RequireUserSession(cookies *SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := cookies.User(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "请先登录"})
			return
		}
		c.Set(userSessionKey, sess)
		c.Next()
	}
}

// OptionalUserSession stores the user session when one is present and
// never rejects.
func OptionalUserSession(cookies *SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := cookies.User(c); ok {
			c.Set(userSessionKey, sess)
		}
		c.Next()
	}
}

// UserSessionFrom returns the session stored by the user middlewares.
func UserSessionFrom(c *gin.Context) *model.UserSession {
	v, ok := c.Get(userSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.UserSession)
	return sess
}

// AdminSessionFrom returns the session stored by RequireAdmin.
func AdminSessionFrom(c *gin.Context) *model.AdminSession {
	v, ok := c.Get(adminSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.AdminSession)
	return sess
}
