package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/schoolyear"
)

type schoolYearApi struct {
	svc        *schoolyear.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerSchoolYearAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := schoolYearApi{
		svc:        deps.YearSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	yg := g.Group("/annees", jwt)
	yg.GET("", api.query)
	yg.POST("", api.create, adminMiddleware())
	yg.GET("/active", api.retrieveActive)
	yg.GET("/archives", api.queryArchived)
	yg.PUT("/:id/activate", api.activate, adminMiddleware())
}

func (api *schoolYearApi) query(ctx echo.Context) error {
	years, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying school years")
	}
	if years == nil {
		years = []schoolyear.SchoolYear{}
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api *schoolYearApi) create(ctx echo.Context) error {
	var data schoolyear.NewSchoolYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchoolYear")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	year, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, year)
}

func (api *schoolYearApi) retrieveActive(ctx echo.Context) error {
	year, err := api.svc.GetActive(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, year)
}

func (api *schoolYearApi) queryArchived(ctx echo.Context) error {
	years, err := api.svc.QueryArchived(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying archived school years")
	}
	if years == nil {
		years = []schoolyear.SchoolYear{}
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api *schoolYearApi) activate(ctx echo.Context) error {
	year, err := api.svc.SetActive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, year)
}
