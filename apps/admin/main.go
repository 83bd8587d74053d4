package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/database/mongodb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	ctx := context.Background()
	db, err := mongodb.Open(ctx, conf)
	errAndDie(err)
	defer func() { errAndDie(mongodb.Close(ctx, db)) }()

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	yearRepo := mongodb.NewSchoolYearRepository(db)
	studentRepo := mongodb.NewStudentRepository(db)

	yearSvc := schoolyear.NewService(yearRepo)

	// start CLI
	cli := commandLine{
		usrSvc:     user.NewService(mongodb.NewUserRepository(db)),
		yearSvc:    yearSvc,
		studentSvc: student.NewService(studentRepo, yearRepo),
		teacherSvc: teacher.NewService(mongodb.NewTeacherRepository(db)),
		gradeSvc:   grade.NewService(mongodb.NewGradeRepository(db), studentRepo),
		paymentSvc: payment.NewService(mongodb.NewPaymentRepository(db), studentRepo),
		validate:   validate,
		translator: translator,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
