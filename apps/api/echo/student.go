package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/student"
)

type studentApi struct {
	svc        *student.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := studentApi{
		svc:        deps.StudentSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	sg := g.Group("/etudiants", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/classes", api.queryClasses)
	sg.GET("/:matricule", api.retrieve)
	sg.PUT("/:matricule", api.update)
	sg.DELETE("/:matricule", api.destroy, adminMiddleware())
}

type studentQueryRequest struct {
	YearLabel   string `query:"annee_scolaire"`
	Class       string `query:"classe"`
	ParentPhone string `query:"telephone_parent"`
}

func (api *studentApi) query(ctx echo.Context) error {
	var q studentQueryRequest
	if err := ctx.Bind(&q); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}

	students, err := api.svc.Filter(ctx.Request().Context(), student.QueryFilter{
		YearLabel:   q.YearLabel,
		Class:       q.Class,
		ParentPhone: q.ParentPhone,
	})
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []string{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetByEnrollmentNumber(ctx.Request().Context(), ctx.Param("matricule"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	std, err := api.svc.Update(ctx.Request().Context(), ctx.Param("matricule"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("matricule")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
