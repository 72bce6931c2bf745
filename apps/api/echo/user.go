package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

type authApi struct {
	sec      *security
	svc      *user.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, authed []echo.MiddlewareFunc, sec *security, svc *user.Service, validate *validator.Validate) {
	api := authApi{sec: sec, svc: svc, validate: validate}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	pg := ag.Group("", authed...)
	pg.POST("/register", api.register, roleRequired(user.RoleSuperAdmin))
	pg.POST("/approve/:id", api.approve, roleRequired(user.RoleSuperAdmin))
	pg.POST("/token-refresh", api.refreshToken)
	pg.GET("/me", api.me)
	pg.PUT("/profile", api.updateProfile)
	pg.PUT("/change-password", api.changePassword)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, claims, err := api.sec.authenticate(ctx, data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := api.sec.generateToken(claims)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"message": "login successful", "token": token, "user": usr})
}

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.WithMessage(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "user registered", "user": usr})
}

func (api *authApi) approve(ctx echo.Context) error {
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	usr, err := api.svc.Approve(ctx.Request().Context(), id)
	if err != nil {
		return errors.WithMessage(err, "approving user")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "user approved", "user": usr})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) updateProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data user.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	usr, err = api.svc.UpdateProfile(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.WithMessage(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "profile updated", "user": usr})
}

func (api *authApi) changePassword(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data user.ChangePassword
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.svc.ChangePassword(ctx.Request().Context(), usr, data); err != nil {
		if errors.Cause(err) == user.ErrWrongPassword {
			return core.NewValidationError(user.ErrWrongPassword,
				core.FieldError{Field: "oldPassword", Error: user.ErrWrongPassword.Error()})
		}
		return errors.WithMessage(err, "changing password")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := api.sec.refreshToken(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"token": token})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
