package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/grade"
)

type gradeApi struct {
	svc        *grade.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := gradeApi{
		svc:        deps.GradeSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	gg := g.Group("/notes", jwt)
	gg.GET("", api.query)
	gg.POST("", api.create)
	gg.PUT("/:id", api.update)
	gg.DELETE("/:id", api.destroy)
}

type gradeQueryRequest struct {
	EnrollmentNumber string `query:"numero_matricule"`
	YearLabel        string `query:"annee_scolaire"`
	Subject          string `query:"matiere"`
	Session          string `query:"session"`
}

func (api *gradeApi) query(ctx echo.Context) error {
	var q gradeQueryRequest
	if err := ctx.Bind(&q); err != nil {
		return ctx.JSON(http.StatusOK, []grade.Grade{})
	}

	grades, err := api.svc.Filter(ctx.Request().Context(), grade.QueryFilter{
		EnrollmentNumber: q.EnrollmentNumber,
		YearLabel:        q.YearLabel,
		Subject:          q.Subject,
		Session:          grade.Session(q.Session),
	})
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	grades, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, grades[0])
}

func (api *gradeApi) update(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	g, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
