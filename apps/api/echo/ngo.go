package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core/ngo"
	"github.com/tangakou/msaada/core/user"
)

type ngoApi struct {
	svc      *ngo.Service
	validate *validator.Validate
}

func registerNGOAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *ngo.Service, validate *validator.Validate) {
	api := ngoApi{svc: svc, validate: validate}

	ng := g.Group("/ngos")

	// un-authed endpoints
	ng.POST("/request", api.request)

	// authed endpoints
	ag := ng.Group("", authed...)
	superAdmin := roleRequired(user.RoleSuperAdmin)
	ag.GET("", api.query, superAdmin)
	ag.GET("/pending", api.queryPending, superAdmin)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id/approve", api.approve, superAdmin)
	ag.PUT("/:id/reject", api.reject, superAdmin)
	ag.DELETE("/:id", api.destroy, superAdmin)
}

// Handlers

func (api *ngoApi) request(ctx echo.Context) error {
	var data ngo.RegistrationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegistrationRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	n, err := api.svc.Request(ctx.Request().Context(), data)
	if err != nil {
		return errors.WithMessage(err, "submitting NGO registration")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"message": "registration request submitted; awaiting approval", "ngo": n})
}

func (api *ngoApi) query(ctx echo.Context) error {
	ngos, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.WithMessage(err, "querying NGOs")
	}
	if ngos == nil {
		ngos = []ngo.NGO{}
	}
	return ctx.JSON(http.StatusOK, ngos)
}

func (api *ngoApi) queryPending(ctx echo.Context) error {
	ngos, err := api.svc.QueryPending(ctx.Request().Context())
	if err != nil {
		return errors.WithMessage(err, "querying pending NGOs")
	}
	if ngos == nil {
		ngos = []ngo.NGO{}
	}
	return ctx.JSON(http.StatusOK, ngos)
}

func (api *ngoApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	n, err := api.svc.GetByID(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.WithMessage(err, "finding NGO by ID")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *ngoApi) approve(ctx echo.Context) error {
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := api.svc.Approve(ctx.Request().Context(), id)
	if err != nil {
		return errors.WithMessage(err, "approving NGO")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"message":         "NGO approved; admin account provisioned",
		"ngo":             res.NGO,
		"admin":           res.Admin,
		"defaultPassword": res.DefaultPassword,
	})
}

func (api *ngoApi) reject(ctx echo.Context) error {
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var data ngo.RejectRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RejectRequest")
	}

	if err = api.svc.Reject(ctx.Request().Context(), id, data.Reason); err != nil {
		return errors.WithMessage(err, "rejecting NGO")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "NGO registration rejected and removed"})
}

func (api *ngoApi) destroy(ctx echo.Context) error {
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.WithMessage(err, "deleting NGO")
	}
	return ctx.NoContent(http.StatusNoContent)
}
