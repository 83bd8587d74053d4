package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	pdfsvc "github.com/trezcool/shule/services/pdfgen"
)

type paymentApi struct {
	svc        *payment.Service
	studentSvc *student.Service
	yearSvc    *schoolyear.Service
	pdf        *pdfsvc.Renderer
	validate   *validator.Validate
	translator ut.Translator
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := paymentApi{
		svc:        deps.PaymentSvc,
		studentSvc: deps.StudentSvc,
		yearSvc:    deps.YearSvc,
		pdf:        deps.PDF,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	pg := g.Group("/paiements", jwt)
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/statistiques", api.stats)
	pg.GET("/etudiant/:matricule", api.queryForStudent)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy, adminMiddleware())
	pg.GET("/:id/recu", api.receipt)
}

type paymentQueryRequest struct {
	EnrollmentNumber string `query:"numero_matricule"`
	YearLabel        string `query:"annee_scolaire"`
	Month            string `query:"mois"`
	Year             int    `query:"annee"`
	Type             string `query:"type_paiement"`
}

func (api *paymentApi) query(ctx echo.Context) error {
	var q paymentQueryRequest
	if err := ctx.Bind(&q); err != nil {
		return ctx.JSON(http.StatusOK, []payment.Payment{})
	}

	payments, err := api.svc.Filter(ctx.Request().Context(), payment.QueryFilter{
		EnrollmentNumber: q.EnrollmentNumber,
		YearLabel:        q.YearLabel,
		Month:            payment.Month(q.Month),
		Year:             q.Year,
		Type:             payment.Type(q.Type),
	})
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) create(ctx echo.Context) error {
	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	pmt, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *paymentApi) stats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	yearLabel := ctx.QueryParam("annee_scolaire")
	if yearLabel == "" {
		year, err := api.yearSvc.GetActive(reqCtx)
		if err != nil {
			return err
		}
		yearLabel = year.Label
	}

	stats, err := api.svc.StatsForYear(reqCtx, yearLabel)
	if err != nil {
		return errors.Wrap(err, "computing payment statistics")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *paymentApi) queryForStudent(ctx echo.Context) error {
	payments, err := api.svc.Filter(ctx.Request().Context(), payment.QueryFilter{
		EnrollmentNumber: ctx.Param("matricule"),
	})
	if err != nil {
		return errors.Wrap(err, "querying student payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) update(ctx echo.Context) error {
	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	pmt, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *paymentApi) receipt(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	pmt, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	std, err := api.studentSvc.GetByEnrollmentNumber(reqCtx, pmt.EnrollmentNumber)
	if err != nil {
		return err
	}

	html, err := pdfsvc.ReceiptHTML(pmt, std.FullName())
	if err != nil {
		return errors.Wrap(err, "building receipt")
	}
	pdf, err := api.pdf.Render(reqCtx, html)
	if err != nil {
		return errors.Wrap(err, "rendering receipt")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="recu-`+pmt.Reference+`.pdf"`)
	return ctx.Blob(http.StatusOK, "application/pdf", pdf)
}
