package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/archive"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/transition"
	"github.com/trezcool/shule/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "utilisateur non authentifié")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "échec de l'authentification")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "compte désactivé")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission refusée")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "introuvable")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *transition.Error:
			code = http.StatusInternalServerError
			message = echo.Map{
				"success": false,
				"message": "La transition de l'année scolaire a échoué",
				"error":   origErr.Cause().Error(),
			}
			logger.Error(origErr.Error(), origErr.Cause())
		default:
			code, message = mapDomainError(origErr)
			if code != http.StatusInternalServerError {
				break
			}

			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Username = claims.Username
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// mapDomainError maps the core sentinel errors to HTTP status codes.
func mapDomainError(err error) (int, interface{}) {
	switch err {
	case schoolyear.ErrNotFound, student.ErrNotFound, teacher.ErrNotFound,
		grade.ErrNotFound, payment.ErrNotFound, archive.ErrNotFound,
		user.ErrNotFound:
		return http.StatusNotFound, err.Error()
	case schoolyear.ErrNoActiveYear:
		return http.StatusBadRequest, err.Error()
	case schoolyear.ErrYearExists, student.ErrEnrollmentExists,
		payment.ErrPaymentExists, transition.ErrInProgress,
		user.ErrUsernameExists, user.ErrEmailExists:
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, nil
}
