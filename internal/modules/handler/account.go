package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/middleware"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
)

type AccountHandler struct {
	svc service.AccountService
}

func NewAccountHandler(s service.AccountService) *AccountHandler {
	return &AccountHandler{svc: s}
}

type RegisterReq struct {
	FirstName       string `form:"first_name" json:"first_name" binding:"required"`
	LastName        string `form:"last_name" json:"last_name" binding:"required"`
	Email           string `form:"email" json:"email" binding:"required,email"`
	Password        string `form:"password" json:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required"`
	MobilePhone     string `form:"mobile_phone" json:"mobile_phone" binding:"required"`
}

// Register godoc
//
//	@Summary		Register user
//	@Description	Create an inactive account and send the activation email
//	@Tags			auth
//	@Accept			mpfd
//	@Produce		json
//	@Success		201	{object}	serializer.Response{data=model.User}
//	@Router			/auth/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	req := RegisterReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		MobilePhone:     req.MobilePhone,
	}
	if fh, err := c.FormFile("profile_picture"); err == nil {
		in.ProfilePicture = fh
	}

	user, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: user, Msg: "check your email to activate your account"})
}

// Activate godoc
//
//	@Summary		Activate account
//	@Tags			auth
//	@Produce		json
//	@Param			key	path		string	true	"Activation key"	format(uuid)
//	@Success		200	{object}	serializer.Response{}
//	@Router			/auth/activate/{key} [get]
func (h *AccountHandler) Activate(c *gin.Context) {
	key, err := uuid.Parse(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid activation key", err))
		return
	}

	if err := h.svc.Activate(c.Request.Context(), key); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "account activated successfully"})
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResp struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Login godoc
//
//	@Summary		Login
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		handler.LoginReq	true	"Login payload"
//	@Success		200		{object}	serializer.Response{data=handler.LoginResp}
//	@Router			/auth/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{
		Data: LoginResp{Token: token, User: user},
		Msg:  "login successful",
	})
}

type PasswordResetRequestReq struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset godoc
//
//	@Summary		Request password reset
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		handler.PasswordResetRequestReq	true	"Reset request payload"
//	@Success		200		{object}	serializer.Response{}
//	@Router			/auth/password-reset [post]
func (h *AccountHandler) RequestPasswordReset(c *gin.Context) {
	req := PasswordResetRequestReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "password reset email sent"})
}

type PasswordResetConfirmReq struct {
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ConfirmPasswordReset godoc
//
//	@Summary		Confirm password reset
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string							true	"Reset key"	format(uuid)
//	@Param			payload	body		handler.PasswordResetConfirmReq	true	"Reset payload"
//	@Success		200		{object}	serializer.Response{}
//	@Router			/auth/password-reset/{key} [post]
func (h *AccountHandler) ConfirmPasswordReset(c *gin.Context) {
	key, err := uuid.Parse(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid reset key", err))
		return
	}

	req := PasswordResetConfirmReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.ConfirmPasswordReset(c.Request.Context(), key, req.NewPassword, req.ConfirmPassword); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "password reset successful"})
}

// Profile godoc
//
//	@Summary		Get own profile
//	@Tags			user
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me [get]
func (h *AccountHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	out, err := h.svc.Profile(c.Request.Context(), user.ID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type UpdateProfileReq struct {
	FirstName   string `form:"first_name" json:"first_name"`
	LastName    string `form:"last_name" json:"last_name"`
	MobilePhone string `form:"mobile_phone" json:"mobile_phone"`
}

// UpdateProfile godoc
//
//	@Summary		Update own profile
//	@Tags			user
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me [put]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	req := UpdateProfileReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		MobilePhone: req.MobilePhone,
	}
	if fh, err := c.FormFile("profile_picture"); err == nil {
		in.ProfilePicture = fh
	}

	out, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// ExtraInfo godoc
//
//	@Summary		Get own extra info
//	@Description	Profile extension, created lazily on first access
//	@Tags			user
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ExtraInfo}
//	@Router			/users/me/extra [get]
func (h *AccountHandler) ExtraInfo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	info, err := h.svc.ExtraInfo(c.Request.Context(), user.ID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: info})
}

type UpdateExtraInfoReq struct {
	BirthDate *string        `json:"birth_date"`
	Address   *string        `json:"address"`
	Country   *string        `json:"country"`
	Socials   map[string]any `json:"socials"`
}

// UpdateExtraInfo godoc
//
//	@Summary		Update own extra info
//	@Tags			user
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ExtraInfo}
//	@Router			/users/me/extra [put]
func (h *AccountHandler) UpdateExtraInfo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	req := UpdateExtraInfoReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UpdateExtraInfoInput{
		Address: req.Address,
		Country: req.Country,
		Socials: req.Socials,
	}
	if req.BirthDate != nil {
		t, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid birth_date", err))
			return
		}
		in.BirthDate = &t
	}

	info, err := h.svc.UpdateExtraInfo(c.Request.Context(), user.ID, in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: info})
}
