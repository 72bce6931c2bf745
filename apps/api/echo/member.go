package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core/user"
)

type memberApi struct {
	svc      *user.Service
	validate *validator.Validate
}

func registerMemberAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *user.Service, validate *validator.Validate) {
	api := memberApi{svc: svc, validate: validate}

	mg := g.Group("/members", authed...)
	mg.Use(roleRequired(user.RoleAdmin))
	mg.GET("", api.query)
	mg.PUT("/:id", api.update)
	mg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *memberApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	members, err := api.svc.Members(ctx.Request().Context(), usr)
	if err != nil {
		return errors.WithMessage(err, "querying members")
	}
	if members == nil {
		members = []user.User{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *memberApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var data user.UpdateMember
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMember")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	member, err := api.svc.UpdateMember(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.WithMessage(err, "updating member")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "member updated", "member": member})
}

func (api *memberApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.DeleteMember(ctx.Request().Context(), usr, id); err != nil {
		return errors.WithMessage(err, "deleting member")
	}
	return ctx.NoContent(http.StatusNoContent)
}
