package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core/invite"
	"github.com/tangakou/msaada/core/user"
)

type invitationApi struct {
	svc      *invite.Service
	validate *validator.Validate
}

func registerInvitationAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *invite.Service, validate *validator.Validate) {
	api := invitationApi{svc: svc, validate: validate}

	ig := g.Group("/invitations")

	// un-authed endpoints
	ig.POST("/accept", api.accept)

	// authed endpoints
	ig.POST("/generate", api.generate, append(authed, roleRequired(user.RoleAdmin))...)
}

// Handlers

func (api *invitationApi) generate(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data invite.NewInvitation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvitation")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	inv, err := api.svc.Generate(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.WithMessage(err, "generating invitation")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "invitation sent", "invitation": inv})
}

func (api *invitationApi) accept(ctx echo.Context) error {
	var data invite.Acceptance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Acceptance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Accept(ctx.Request().Context(), data)
	if err != nil {
		return errors.WithMessage(err, "accepting invitation")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "invitation accepted", "user": usr})
}
