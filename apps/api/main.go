package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/archive"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/transition"
	"github.com/trezcool/shule/core/user"
	logsvc "github.com/trezcool/shule/services/logger"
	notifsvc "github.com/trezcool/shule/services/notifier"
	pdfsvc "github.com/trezcool/shule/services/pdfgen"
	"github.com/trezcool/shule/storage/database/mongodb"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	ctx := context.Background()
	db, err := mongodb.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = mongodb.Close(ctx, db); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var notifier core.Notifier
	if conf.Debug {
		notifier = notifsvc.NewConsoleNotifier(logger)
	} else {
		notifier = notifsvc.NewEmailNotifier(conf, logger)
	}

	yearRepo := mongodb.NewSchoolYearRepository(db)
	studentRepo := mongodb.NewStudentRepository(db)
	teacherRepo := mongodb.NewTeacherRepository(db)
	gradeRepo := mongodb.NewGradeRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	archiveRepo := mongodb.NewArchiveRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	yearSvc := schoolyear.NewService(yearRepo)
	studentSvc := student.NewService(studentRepo, yearRepo)
	teacherSvc := teacher.NewService(teacherRepo)
	gradeSvc := grade.NewService(gradeRepo, studentRepo)
	paymentSvc := payment.NewService(paymentRepo, studentRepo)
	archiveSvc := archive.NewService(archiveRepo)
	transitionSvc := transition.NewService(yearSvc, studentRepo, gradeSvc, paymentRepo, archiveSvc, notifier, logger)
	userSvc := user.NewService(userRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       userSvc,
			YearSvc:       yearSvc,
			StudentSvc:    studentSvc,
			TeacherSvc:    teacherSvc,
			GradeSvc:      gradeSvc,
			PaymentSvc:    paymentSvc,
			ArchiveSvc:    archiveSvc,
			TransitionSvc: transitionSvc,
			PDF:           pdfsvc.NewRenderer(logger),
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		shutCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(shutCtx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
