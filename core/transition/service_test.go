package transition

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/archive"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	logsvc "github.com/trezcool/shule/services/logger"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

type capturedEvent struct {
	event   string
	payload interface{}
}

type capturingNotifier struct {
	events []capturedEvent
}

func (n *capturingNotifier) Emit(event string, payload interface{}) {
	n.events = append(n.events, capturedEvent{event: event, payload: payload})
}

type testEnv struct {
	years       *schoolyear.Service
	studentRepo student.Repository
	gradeRepo   grade.Repository
	grades      *grade.Service
	paymentRepo payment.Repository
	archives    *archive.Service
	archiveRepo archive.Repository
	notifier    *capturingNotifier
	svc         *Service
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	yearRepo := dummydb.NewSchoolYearRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	gradeRepo := dummydb.NewGradeRepository(db)
	paymentRepo := dummydb.NewPaymentRepository(db)
	archiveRepo := dummydb.NewArchiveRepository(db)

	env := &testEnv{
		years:       schoolyear.NewService(yearRepo),
		studentRepo: studentRepo,
		gradeRepo:   gradeRepo,
		grades:      grade.NewService(gradeRepo, studentRepo),
		paymentRepo: paymentRepo,
		archives:    archive.NewService(archiveRepo),
		archiveRepo: archiveRepo,
		notifier:    &capturingNotifier{},
	}
	env.svc = NewService(
		env.years,
		studentRepo,
		env.grades,
		paymentRepo,
		env.archives,
		env.notifier,
		logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0)),
	)
	return env
}

func (env *testEnv) createActiveYear(t *testing.T, label string) schoolyear.SchoolYear {
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	year, err := env.years.CreateActive(context.Background(), label, start, start.AddDate(0, 10, 0))
	if err != nil {
		t.Fatalf("createActiveYear() failed: %v", err)
	}
	return year
}

func (env *testEnv) createStudent(t *testing.T, enrollment, class, yearLabel string) student.Student {
	std := student.Student{
		EnrollmentNumber: enrollment,
		LastName:         "RAKOTO",
		FirstName:        "Niry",
		Class:            class,
		ParentPhone:      "0341234567",
		YearLabel:        yearLabel,
	}
	std.Normalize()
	std, err := env.studentRepo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func (env *testEnv) createGrade(t *testing.T, enrollment, yearLabel string, value float64) {
	_, err := env.gradeRepo.CreateGrades(context.Background(), grade.Grade{
		EnrollmentNumber: enrollment,
		Subject:          "Mathématiques",
		Value:            value,
		Session:          grade.SessionFirst,
		EvaluationType:   grade.EvalContinuous,
		YearLabel:        yearLabel,
	})
	if err != nil {
		t.Fatalf("createGrade() failed: %v", err)
	}
}

func (env *testEnv) createPayment(t *testing.T, enrollment, yearLabel string, year int, month payment.Month, amount float64) {
	_, err := env.paymentRepo.CreatePayment(context.Background(), payment.Payment{
		EnrollmentNumber: enrollment,
		Type:             payment.TypeTuition,
		Month:            month,
		Year:             year,
		Amount:           amount,
		YearLabel:        yearLabel,
		Status:           payment.StatusPaid,
	})
	if err != nil {
		t.Fatalf("createPayment() failed: %v", err)
	}
}

func newTransitionTo(label string) NewTransition {
	start := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	return NewTransition{
		NewYearLabel: label,
		StartDate:    start,
		EndDate:      start.AddDate(0, 10, 0),
	}
}

func TestService_Run_noActiveYear(t *testing.T) {
	env := setup(t)

	_, err := env.svc.Run(context.Background(), newTransitionTo("2025-2026"))
	assert.Equal(t, schoolyear.ErrNoActiveYear, err)
}

func TestService_Run_admittedStudentIsPromoted(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.createActiveYear(t, "2024-2025")
	env.createStudent(t, "2024001", "6ème", "2024-2025")
	env.createGrade(t, "2024001", "2024-2025", 14)

	res, err := env.svc.Run(ctx, newTransitionTo("2025-2026"))
	require.NoError(t, err)

	assert.Equal(t, schoolyear.TransitionStats{TotalStudents: 1, Admitted: 1}, res.Stats)

	std, err := env.studentRepo.GetStudentByEnrollmentNumber(ctx, "2024001")
	require.NoError(t, err)
	assert.Equal(t, "5ème", std.Class)
	assert.Equal(t, "2025-2026", std.YearLabel)

	arch, err := env.archives.GetStudent(ctx, "2024-2025", "2024001")
	require.NoError(t, err)
	assert.Equal(t, archive.DecisionAdmitted, arch.Decision)
	assert.Equal(t, "6ème", arch.Class) // snapshot keeps the pre-transition class
	assert.Equal(t, "5ème", arch.NextClass)
	assert.Equal(t, 14.0, arch.Average)
	assert.Len(t, arch.Grades, 1)
}

func TestService_Run_terminalClassStudentExits(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.createActiveYear(t, "2024-2025")
	env.createStudent(t, "2024001", "CM2", "2024-2025")
	env.createGrade(t, "2024001", "2024-2025", 12)

	res, err := env.svc.Run(ctx, newTransitionTo("2025-2026"))
	require.NoError(t, err)

	assert.Equal(t, schoolyear.TransitionStats{TotalStudents: 1, Exiting: 1}, res.Stats)

	// exiting students are not carried over to the new year
	std, err := env.studentRepo.GetStudentByEnrollmentNumber(ctx, "2024001")
	require.NoError(t, err)
	assert.Equal(t, "CM2", std.Class)
	assert.Equal(t, "2024-2025", std.YearLabel)

	arch, err := env.archives.GetStudent(ctx, "2024-2025", "2024001")
	require.NoError(t, err)
	assert.Equal(t, archive.DecisionExiting, arch.Decision)
	assert.Empty(t, arch.NextClass)
}

func TestService_Run_failingStudentRepeats(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.createActiveYear(t, "2024-2025")
	env.createStudent(t, "2024001", "CM2", "2024-2025")
	env.createGrade(t, "2024001", "2024-2025", 8)

	// a stale payment already recorded under the target year must be wiped
	env.createPayment(t, "2024001", "2025-2026", 2025, payment.MonthSeptember, 40000)

	res, err := env.svc.Run(ctx, newTransitionTo("2025-2026"))
	require.NoError(t, err)

	assert.Equal(t, schoolyear.TransitionStats{TotalStudents: 1, Repeating: 1}, res.Stats)

	std, err := env.studentRepo.GetStudentByEnrollmentNumber(ctx, "2024001")
	require.NoError(t, err)
	assert.Equal(t, "CM2", std.Class)
	assert.Equal(t, "2025-2026", std.YearLabel)

	payments, err := env.paymentRepo.FilterPayments(ctx, payment.QueryFilter{EnrollmentNumber: "2024001"})
	require.NoError(t, err)
	assert.Empty(t, payments)

	arch, err := env.archives.GetStudent(ctx, "2024-2025", "2024001")
	require.NoError(t, err)
	assert.Equal(t, archive.DecisionRepeat, arch.Decision)
}

func TestService_Run_studentWithoutGradesRepeats(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.createActiveYear(t, "2024-2025")
	env.createStudent(t, "2024001", "CE1", "2024-2025")

	res, err := env.svc.Run(ctx, newTransitionTo("2025-2026"))
	require.NoError(t, err)

	assert.Equal(t, schoolyear.TransitionStats{TotalStudents: 1, Repeating: 1}, res.Stats)

	arch, err := env.archives.GetStudent(ctx, "2024-2025", "2024001")
	require.NoError(t, err)
	assert.Equal(t, 0.0, arch.Average)
}

func TestService_Run_archivesOutgoingPayments(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.createActiveYear(t, "2024-2025")
	env.createStudent(t, "2024001", "CP", "2024-2025")
	env.createPayment(t, "2024001", "2024-2025", 2024, payment.MonthSeptember, 50000)
	env.createPayment(t, "2024001", "2024-2025", 2024, payment.MonthOctober, 50000)
	// matched on the numeric year even though the label differs
	env.createPayment(t, "2024001", "", 2024, payment.MonthNovember, 50000)

	_, err := env.svc.Run(ctx, newTransitionTo("2025-2026"))
	require.NoError(t, err)

	batches, err := env.archives.QueryPaymentsByYear(ctx, "2024-2025")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 150000.0, batches[0].TotalAmount)
	assert.Equal(t, 3, batches[0].DocumentCount)
	assert.Len(t, batches[0].Payments, 3)

	remaining, err := env.paymentRepo.QueryPaymentsForYear(ctx, "2024-2025", 2024)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestService_Run_retiresOutgoingAndActivatesNewYear(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	outgoing := env.createActiveYear(t, "2024-2025")
	env.createStudent(t, "2024001", "CP", "2024-2025")
	env.createGrade(t, "2024001", "2024-2025", 13)

	res, err := env.svc.Run(ctx, newTransitionTo("2025-2026"))
	require.NoError(t, err)

	assert.Equal(t, "2025-2026", res.NewYear.Label)
	assert.True(t, res.NewYear.IsActive)

	active, err := env.years.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", active.Label)

	old, err := env.years.GetByID(ctx, outgoing.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
	require.NotNil(t, old.TransitionStats)
	assert.Equal(t, schoolyear.TransitionStats{TotalStudents: 1, Admitted: 1}, *old.TransitionStats)

	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, EventYearChanged, env.notifier.events[0].event)
	evt, ok := env.notifier.events[0].payload.(Event)
	require.True(t, ok)
	assert.Equal(t, "2025-2026", evt.NewYear.Label)
}

func TestService_Run_activatesExistingTargetYear(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.createActiveYear(t, "2025-2026") // pre-created target
	outgoing, err := env.years.Create(ctx, schoolyear.NewSchoolYear{
		Label:     "2024-2025",
		StartDate: time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	require.NoError(t, err)
	require.True(t, outgoing.IsActive)

	res, err := env.svc.Run(ctx, newTransitionTo("2025-2026"))
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", res.NewYear.Label)
	assert.True(t, res.NewYear.IsActive)

	years, err := env.years.QueryAll(ctx)
	require.NoError(t, err)
	var activeCount int
	for _, y := range years {
		if y.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestService_Run_rejectsConcurrentRuns(t *testing.T) {
	env := setup(t)
	env.svc.mu.Lock()
	env.svc.running = true
	env.svc.mu.Unlock()

	_, err := env.svc.Run(context.Background(), newTransitionTo("2025-2026"))
	assert.Equal(t, ErrInProgress, err)
}

func TestError_exposesCause(t *testing.T) {
	cause := assert.AnError
	err := &Error{cause: cause}
	assert.Equal(t, cause, err.Cause())
	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Error(), cause.Error())
}
