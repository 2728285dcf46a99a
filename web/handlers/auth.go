package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"worktally.com/worktally/security"
	"worktally.com/worktally/web/common"
	"worktally.com/worktally/web/middlewares"
)

type AuthEndpoint struct {
	auth *security.Authenticator
}

func RegisterAuth(r *gin.RouterGroup, auth *security.Authenticator) {
	endpoint := &AuthEndpoint{auth: auth}
	r.POST("/auth/register", endpoint.Register)
	r.POST("/auth/login", endpoint.Login)
	r.POST("/auth/verify", endpoint.Verify)
}

type CredentialDTO struct {
	AuthType string `json:"authType" binding:"omitempty,oneof=local wechat oauth"`
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (d CredentialDTO) credential() security.Credential {
	if d.AuthType == "" || d.AuthType == "local" {
		return security.LocalCredential(d.Username, d.Password)
	}
	return security.ExternalCredential(d.AuthType, d.Code)
}

type VerifyDTO struct {
	Token string `json:"token" binding:"required"`
}

func (ep *AuthEndpoint) Register(c *gin.Context) {
	var body CredentialDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	session, err := ep.auth.Register(c.Request.Context(), body.credential())
	if err != nil {
		c.JSON(authStatus(err, http.StatusBadRequest), common.NewErrorResponse(err.Error()))
		return
	}

	setSessionCookie(c, session)
	c.JSON(http.StatusCreated, common.NewSuccessResponse(session))
}

func (ep *AuthEndpoint) Login(c *gin.Context) {
	var body CredentialDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	session, err := ep.auth.Login(c.Request.Context(), body.credential())
	if err != nil {
		c.JSON(authStatus(err, http.StatusUnauthorized), common.NewErrorResponse(err.Error()))
		return
	}

	setSessionCookie(c, session)
	c.JSON(http.StatusOK, common.NewSuccessResponse(session))
}

func (ep *AuthEndpoint) Verify(c *gin.Context) {
	var body VerifyDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	user, err := ep.auth.Verify(c.Request.Context(), body.Token)
	if err != nil {
		c.JSON(authStatus(err, http.StatusUnauthorized), common.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"user": user}))
}

// authStatus maps authentication errors; invalidCredentials is the status for
// a credential that is malformed or does not match.
func authStatus(err error, invalidCredentials int) int {
	switch {
	case errors.Is(err, security.ErrInvalidCredentials):
		return invalidCredentials
	case errors.Is(err, security.ErrWeakPassword),
		errors.Is(err, security.ErrUnsupportedProvider):
		return http.StatusBadRequest
	case errors.Is(err, security.ErrUsernameTaken),
		errors.Is(err, security.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExternalAuth):
		return http.StatusUnauthorized
	}
	log.Printf("[ERROR] auth: %v", err)
	return http.StatusInternalServerError
}

func setSessionCookie(c *gin.Context, session *security.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, session.Token, maxAge, "/", "", c.Request.TLS != nil, true)
}
