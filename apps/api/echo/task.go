package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core/task"
	"github.com/tangakou/msaada/core/user"
)

type taskApi struct {
	svc      *task.Service
	validate *validator.Validate
}

func registerTaskAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *task.Service, validate *validator.Validate) {
	api := taskApi{svc: svc, validate: validate}

	tg := g.Group("/tasks", authed...)
	adminOrStaff := roleRequired(user.RoleAdmin, user.RoleStaff)
	tg.POST("", api.create, adminOrStaff)
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update, adminOrStaff)
	tg.PUT("/:id/status", api.updateStatus, roleRequired(user.RoleVolunteer))
	tg.PUT("/:id/confirm", api.confirm, roleRequired(user.RoleAdmin))
	tg.DELETE("/:id", api.destroy, roleRequired(user.RoleAdmin))
}

// Handlers

func (api *taskApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data task.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.WithMessage(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "task created", "task": t})
}

func (api *taskApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	tasks, err := api.svc.Query(ctx.Request().Context(), usr)
	if err != nil {
		return errors.WithMessage(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	t, err := api.svc.GetByID(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.WithMessage(err, "finding task by ID")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var data task.UpdateTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.WithMessage(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "task updated", "task": t})
}

func (api *taskApi) updateStatus(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var data task.UpdateStatus
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.UpdateStatus(ctx.Request().Context(), usr, id, data.Status)
	if err != nil {
		return errors.WithMessage(err, "updating task status")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "task status updated", "task": t})
}

func (api *taskApi) confirm(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	t, err := api.svc.Confirm(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.WithMessage(err, "confirming task completion")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "task completion confirmed", "task": t})
}

func (api *taskApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), usr, id); err != nil {
		return errors.WithMessage(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}
