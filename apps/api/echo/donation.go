package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core/donation"
	"github.com/tangakou/msaada/core/user"
)

type donationApi struct {
	svc      *donation.Service
	validate *validator.Validate
}

func registerDonationAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *donation.Service, validate *validator.Validate) {
	api := donationApi{svc: svc, validate: validate}

	dg := g.Group("/donations", authed...)
	dg.Use(roleRequired(user.RoleAdmin, user.RoleStaff))
	dg.POST("", api.create)
	dg.GET("", api.query)
	dg.GET("/:id", api.retrieve)
	dg.PUT("/:id", api.update)
	dg.DELETE("/:id", api.destroy, roleRequired(user.RoleAdmin))
}

// Handlers

func (api *donationApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data donation.NewDonation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDonation")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	d, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.WithMessage(err, "recording donation")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "donation recorded", "donation": d})
}

func (api *donationApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	donations, err := api.svc.Query(ctx.Request().Context(), usr)
	if err != nil {
		return errors.WithMessage(err, "querying donations")
	}
	if donations == nil {
		donations = []donation.Donation{}
	}
	return ctx.JSON(http.StatusOK, donations)
}

func (api *donationApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	d, err := api.svc.GetByID(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.WithMessage(err, "finding donation by ID")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *donationApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var data donation.UpdateDonation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDonation")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	d, err := api.svc.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.WithMessage(err, "updating donation")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "donation updated", "donation": d})
}

func (api *donationApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := objectIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), usr, id); err != nil {
		return errors.WithMessage(err, "deleting donation")
	}
	return ctx.NoContent(http.StatusNoContent)
}
