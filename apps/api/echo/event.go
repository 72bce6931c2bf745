package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core/event"
	"github.com/tangakou/msaada/core/user"
)

type eventApi struct {
	svc      *event.Service
	validate *validator.Validate
}

func registerEventAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *event.Service, validate *validator.Validate) {
	api := eventApi{svc: svc, validate: validate}

	eg := g.Group("/events", authed...)
	adminOrStaff := roleRequired(user.RoleAdmin, user.RoleStaff)
	eg.POST("", api.create, adminOrStaff)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update, adminOrStaff)
	eg.DELETE("/:id", api.destroy, roleRequired(user.RoleAdmin))
}

// Handlers

func (api *eventApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data event.NewEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.WithMessage(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "event created", "event": e})
}

func (api *eventApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	events, err := api.svc.Query(ctx.Request().Context(), usr)
	if err != nil {
		return errors.WithMessage(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	e, err := api.svc.GetByID(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.WithMessage(err, "finding event by ID")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *eventApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var data event.UpdateEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.WithMessage(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "event updated", "event": e})
}

func (api *eventApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), usr, id); err != nil {
		return errors.WithMessage(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
