package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/archive"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/transition"
	pdfsvc "github.com/trezcool/shule/services/pdfgen"
)

type transitionApi struct {
	svc        *transition.Service
	archiveSvc *archive.Service
	yearSvc    *schoolyear.Service
	pdf        *pdfsvc.Renderer
	validate   *validator.Validate
	translator ut.Translator
}

func registerTransitionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := transitionApi{
		svc:        deps.TransitionSvc,
		archiveSvc: deps.ArchiveSvc,
		yearSvc:    deps.YearSvc,
		pdf:        deps.PDF,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	tg := g.Group("/transitions", jwt)
	tg.POST("/transition", api.run, adminMiddleware())
	tg.GET("/archives", api.queryArchivedYears)
	tg.GET("/archives/:annee", api.queryYearArchives)
	tg.GET("/bulletin/:annee/:matricule", api.bulletin)
	tg.GET("/bulletin-pdf/:annee/:matricule", api.bulletinPDF)
}

type (
	TransitionResponse struct {
		Success bool                       `json:"success"`
		Message string                     `json:"message"`
		Stats   schoolyear.TransitionStats `json:"statistiques"`
		NewYear schoolyear.SchoolYear      `json:"nouvelle_annee"`
	}

	YearArchivesResponse struct {
		Archives []archive.StudentArchive `json:"archives"`
		Stats    archive.Stats            `json:"statistiques"`
	}
)

func (api *transitionApi) run(ctx echo.Context) error {
	var data transition.NewTransition
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransition")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	res, err := api.svc.Run(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{
		Success: true,
		Message: "Transition vers l'année scolaire " + res.NewYear.Label + " effectuée avec succès",
		Stats:   res.Stats,
		NewYear: res.NewYear,
	})
}

func (api *transitionApi) queryArchivedYears(ctx echo.Context) error {
	years, err := api.yearSvc.QueryArchived(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying archived school years")
	}
	if years == nil {
		years = []schoolyear.SchoolYear{}
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api *transitionApi) queryYearArchives(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	yearLabel := ctx.Param("annee")

	archives, err := api.archiveSvc.QueryByYear(reqCtx, yearLabel)
	if err != nil {
		return errors.Wrap(err, "querying student archives")
	}
	if archives == nil {
		archives = []archive.StudentArchive{}
	}
	stats, err := api.archiveSvc.StatsByYear(reqCtx, yearLabel)
	if err != nil {
		return errors.Wrap(err, "computing archive statistics")
	}

	return ctx.JSON(http.StatusOK, YearArchivesResponse{Archives: archives, Stats: stats})
}

func (api *transitionApi) bulletin(ctx echo.Context) error {
	arch, err := api.archiveSvc.GetStudent(ctx.Request().Context(), ctx.Param("annee"), ctx.Param("matricule"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, arch)
}

func (api *transitionApi) bulletinPDF(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	arch, err := api.archiveSvc.GetStudent(reqCtx, ctx.Param("annee"), ctx.Param("matricule"))
	if err != nil {
		return err
	}

	html, err := pdfsvc.BulletinHTML(arch)
	if err != nil {
		return errors.Wrap(err, "building bulletin")
	}
	pdf, err := api.pdf.Render(reqCtx, html)
	if err != nil {
		return errors.Wrap(err, "rendering bulletin")
	}

	filename := `attachment; filename="bulletin-` + arch.EnrollmentNumber + `-` + arch.YearLabel + `.pdf"`
	ctx.Response().Header().Set(echo.HeaderContentDisposition, filename)
	return ctx.Blob(http.StatusOK, "application/pdf", pdf)
}
