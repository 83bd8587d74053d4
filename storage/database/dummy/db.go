package dummydb

import (
	"strconv"
	"sync"

	"github.com/trezcool/shule/core/archive"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

// DB is an in-memory store for tests and local development.
type (
	DB struct {
		years           *yearTable
		students        *studentTable
		teachers        *teacherTable
		grades          *gradeTable
		payments        *paymentTable
		studentArchives *studentArchiveTable
		paymentArchives *paymentArchiveTable
		users           *userTable
	}

	yearTable struct {
		sync.RWMutex
		table map[string]*schoolyear.SchoolYear
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student // key: enrollment number
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher
	}

	gradeTable struct {
		sync.RWMutex
		table map[string]*grade.Grade
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*payment.Payment
	}

	studentArchiveTable struct {
		sync.RWMutex
		table map[string]*archive.StudentArchive
	}

	paymentArchiveTable struct {
		sync.RWMutex
		table map[string]*archive.PaymentArchive
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
)

func Open() (*DB, error) {
	db := &DB{
		years:           &yearTable{table: make(map[string]*schoolyear.SchoolYear)},
		students:        &studentTable{table: make(map[string]*student.Student)},
		teachers:        &teacherTable{table: make(map[string]*teacher.Teacher)},
		grades:          &gradeTable{table: make(map[string]*grade.Grade)},
		payments:        &paymentTable{table: make(map[string]*payment.Payment)},
		studentArchives: &studentArchiveTable{table: make(map[string]*archive.StudentArchive)},
		paymentArchives: &paymentArchiveTable{table: make(map[string]*archive.PaymentArchive)},
		users:           &userTable{table: make(map[string]*user.User)},
	}
	return db, nil
}

var (
	pkMu    sync.Mutex
	pkCount int
)

func nextPK() string {
	pkMu.Lock()
	defer pkMu.Unlock()
	pkCount++
	return strconv.Itoa(pkCount)
}
