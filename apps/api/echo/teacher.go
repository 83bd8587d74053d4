package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/teacher"
)

type teacherApi struct {
	svc        *teacher.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := teacherApi{
		svc:        deps.TeacherSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	tg := g.Group("/enseignants", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy, adminMiddleware())
}

type teacherQueryRequest struct {
	Subject string `query:"matiere"`
	Class   string `query:"classe"`
}

func (api *teacherApi) query(ctx echo.Context) error {
	var q teacherQueryRequest
	if err := ctx.Bind(&q); err != nil {
		return ctx.JSON(http.StatusOK, []teacher.Teacher{})
	}

	teachers, err := api.svc.Filter(ctx.Request().Context(), teacher.QueryFilter{
		Subject: q.Subject,
		Class:   q.Class,
	})
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	tch, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	tch, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
