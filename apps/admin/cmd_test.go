package main

import (
	"context"
	"io/ioutil"
	"log"
	"testing"

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
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	logger = log.New(ioutil.Discard, "", 0)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	yearRepo := dummydb.NewSchoolYearRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)

	return &commandLine{
		usrSvc:     user.NewService(dummydb.NewUserRepository(db)),
		yearSvc:    schoolyear.NewService(yearRepo),
		studentSvc: student.NewService(studentRepo, yearRepo),
		teacherSvc: teacher.NewService(dummydb.NewTeacherRepository(db)),
		gradeSvc:   grade.NewService(dummydb.NewGradeRepository(db), studentRepo),
		paymentSvc: payment.NewService(dummydb.NewPaymentRepository(db), studentRepo),
		validate:   validate,
		translator: translator,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "username but no email", args: []string{"addadmin", "-username", "boss"}, wantErr: errHelp},
		{name: "empty password", args: []string{"addadmin", "-username", "boss", "-email", "boss@school.test"}, wantErr: errHelp},
		{name: "create admin", args: []string{"addadmin", "-username", "boss", "-email", "boss@school.test"}, pwd: "Sup3rS3cret!"},
		{name: "update existing admin", args: []string{"addadmin", "-username", "boss", "-email", "boss@school.test"}, pwd: "N3wS3cret!"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			usr, err := cli.usrSvc.GetByUsernameOrEmail(context.Background(), "boss")
			if err != nil {
				t.Fatalf("GetByUsernameOrEmail() failed: %v", err)
			}
			if !usr.IsAdmin() {
				t.Error("expected an admin account")
			}
			if !usr.IsActive {
				t.Error("expected an active account")
			}
			if err := usr.CheckPassword(tt.pwd); err != nil {
				t.Error("failed to set new password")
			}
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}

	yr, err := cli.yearSvc.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if yr.Label != seedYearLabel {
		t.Errorf("active year = %s, want %s", yr.Label, seedYearLabel)
	}

	students, err := cli.studentSvc.Filter(ctx, student.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	if len(students) != 3 {
		t.Errorf("students = %d, want 3", len(students))
	}

	teachers, err := cli.teacherSvc.Filter(ctx, teacher.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	if len(teachers) != 2 {
		t.Errorf("teachers = %d, want 2", len(teachers))
	}

	grades, err := cli.gradeSvc.Filter(ctx, grade.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	if len(grades) != 6 {
		t.Errorf("grades = %d, want 6", len(grades))
	}

	stats, err := cli.paymentSvc.StatsForYear(ctx, seedYearLabel)
	if err != nil {
		t.Fatalf("StatsForYear() failed: %v", err)
	}
	if stats.DocumentCount != 3 {
		t.Errorf("payments = %d, want 3", stats.DocumentCount)
	}
	if stats.TotalAmount != 125000 {
		t.Errorf("total amount = %v, want 125000", stats.TotalAmount)
	}

	// seeding twice is a no-op
	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	students, err = cli.studentSvc.Filter(ctx, student.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	if len(students) != 3 {
		t.Errorf("students after reseed = %d, want 3", len(students))
	}
}
