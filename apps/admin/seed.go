package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
)

const seedYearLabel = "2024-2025"

// seed populates the database with a demo school year, students, grades and
// payments. It is a no-op when the demo year already exists.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	if _, err := cli.yearSvc.GetByLabel(ctx, seedYearLabel); err == nil {
		logger.Printf("school year %s already exists - nothing to do\n", seedYearLabel)
		return nil
	} else if errors.Cause(err) != schoolyear.ErrNotFound {
		return err
	}

	year := schoolyear.NewSchoolYear{
		Label:     seedYearLabel,
		StartDate: time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	if err := year.Validate(cli.validate, cli.translator); err != nil {
		return err
	}
	if _, err := cli.yearSvc.Create(ctx, year); err != nil {
		return err
	}
	logger.Printf("school year %s created\n", seedYearLabel)

	students := []student.NewStudent{
		{
			EnrollmentNumber: "2024001",
			LastName:         "Dupont",
			FirstName:        "Jean",
			Class:            "6ème",
			ParentPhone:      "0341234567",
			BirthDate:        time.Date(2012, time.May, 15, 0, 0, 0, 0, time.UTC),
			BirthPlace:       "Mahajanga",
			FatherName:       "Dupont Père",
			MotherName:       "Dupont Mère",
			Vaccinated:       true,
		},
		{
			EnrollmentNumber: "2024002",
			LastName:         "Rakoto",
			FirstName:        "Miora",
			Class:            "CM2",
			ParentPhone:      "0347654321",
			BirthDate:        time.Date(2014, time.January, 8, 0, 0, 0, 0, time.UTC),
			BirthPlace:       "Antananarivo",
		},
		{
			EnrollmentNumber: "2024003",
			LastName:         "Martin",
			FirstName:        "Sophie",
			Class:            "Tle",
			ParentPhone:      "0329876543",
			BirthDate:        time.Date(2007, time.November, 23, 0, 0, 0, 0, time.UTC),
			BirthPlace:       "Toamasina",
		},
	}
	for i := range students {
		if err := students[i].Validate(cli.validate, cli.translator); err != nil {
			return err
		}
		std, err := cli.studentSvc.Create(ctx, students[i])
		if err != nil {
			return err
		}
		logger.Printf("student %s (%s) created\n", std.FullName(), std.EnrollmentNumber)
	}

	teachers := []teacher.NewTeacher{
		{LastName: "Rasolofoson", FirstName: "Hery", Subject: "Mathématiques", Phone: "0331112233", Email: "hery@school.test", Classes: []string{"6ème", "5ème"}},
		{LastName: "Andrianina", FirstName: "Voahangy", Subject: "Français", Phone: "0334445566", Classes: []string{"CM2"}},
	}
	for i := range teachers {
		if err := teachers[i].Validate(cli.validate, cli.translator); err != nil {
			return err
		}
		tch, err := cli.teacherSvc.Create(ctx, teachers[i])
		if err != nil {
			return err
		}
		logger.Printf("teacher %s created\n", tch.FullName())
	}

	grades := []grade.NewGrade{
		{EnrollmentNumber: "2024001", Subject: "Mathématiques", Value: 15, Session: grade.SessionFirst, EvaluationType: grade.EvalContinuous, Comment: "Très bien"},
		{EnrollmentNumber: "2024001", Subject: "Français", Value: 14, Session: grade.SessionFirst, EvaluationType: grade.EvalContinuous, Comment: "Bon travail"},
		{EnrollmentNumber: "2024001", Subject: "Histoire", Value: 16, Session: grade.SessionFirst, EvaluationType: grade.EvalExam, Comment: "Excellent"},
		{EnrollmentNumber: "2024002", Subject: "Mathématiques", Value: 8, Session: grade.SessionFirst, EvaluationType: grade.EvalContinuous},
		{EnrollmentNumber: "2024002", Subject: "Français", Value: 9, Session: grade.SessionFirst, EvaluationType: grade.EvalExam},
		{EnrollmentNumber: "2024003", Subject: "Philosophie", Value: 13, Session: grade.SessionFirst, EvaluationType: grade.EvalExam},
	}
	for i := range grades {
		if err := grades[i].Validate(cli.validate, cli.translator); err != nil {
			return err
		}
	}
	if _, err := cli.gradeSvc.Create(ctx, grades...); err != nil {
		return err
	}
	logger.Printf("%d grades created\n", len(grades))

	payments := []payment.NewPayment{
		{EnrollmentNumber: "2024001", Type: payment.TypeTuition, Month: payment.MonthSeptember, Year: 2024, Amount: 50000},
		{EnrollmentNumber: "2024002", Type: payment.TypeTuition, Month: payment.MonthSeptember, Year: 2024, Amount: 50000},
		{EnrollmentNumber: "2024003", Type: payment.TypeRegistration, Month: payment.MonthRegistration, Year: 2024, Amount: 25000},
	}
	for i := range payments {
		if err := payments[i].Validate(cli.validate, cli.translator); err != nil {
			return err
		}
		pmt, err := cli.paymentSvc.Create(ctx, payments[i])
		if err != nil {
			return err
		}
		logger.Printf("payment %s created\n", pmt.Reference)
	}

	logger.Println("database seeded")
	return nil
}
