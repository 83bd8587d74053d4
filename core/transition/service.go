package transition

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/archive"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
)

const passingAverage = 10

var (
	// errors
	ErrInProgress = errors.New("a school year transition is already running")
)

// Error wraps any failure past input validation; the run aborts and already
// applied per-student mutations are NOT rolled back. Callers must re-verify
// state before retrying the whole year.
type Error struct {
	cause error
}

func (e *Error) Error() string { return "school year transition failed: " + e.cause.Error() }
func (e *Error) Cause() error  { return e.cause }
func (e *Error) Unwrap() error { return e.cause }

type (
	// Service orchestrates the year-end transition across the year registry,
	// the student directory, the grade ledger, the payment ledger and the
	// archive store.
	Service struct {
		years    *schoolyear.Service
		students student.Repository
		grades   *grade.Service
		payments payment.Repository
		archives *archive.Service
		notifier core.Notifier
		logger   core.Logger

		mu      sync.Mutex
		running bool
	}
)

func NewService(
	years *schoolyear.Service,
	students student.Repository,
	grades *grade.Service,
	payments payment.Repository,
	archives *archive.Service,
	notifier core.Notifier,
	logger core.Logger,
) *Service {
	return &Service{
		years:    years,
		students: students,
		grades:   grades,
		payments: payments,
		archives: archives,
		notifier: notifier,
		logger:   logger,
	}
}

// Run performs one school year transition:
// archive the outgoing year's payments (best-effort), decide and migrate or
// retire every student of the outgoing year, snapshot each of them, retire
// the outgoing year and activate (or create) the new one.
//
// Each step commits independently; there is no rollback. Concurrent runs
// are rejected with ErrInProgress.
func (svc *Service) Run(ctx context.Context, nt NewTransition) (Result, error) {
	svc.mu.Lock()
	if svc.running {
		svc.mu.Unlock()
		return Result{}, ErrInProgress
	}
	svc.running = true
	svc.mu.Unlock()
	defer func() {
		svc.mu.Lock()
		svc.running = false
		svc.mu.Unlock()
	}()

	newYearNum, _ := schoolyear.StartYearNum(nt.NewYearLabel) // 0 disables numeric matching

	active, err := svc.years.GetActive(ctx)
	if err != nil {
		if err == schoolyear.ErrNoActiveYear {
			return Result{}, err
		}
		return Result{}, &Error{cause: pkgerrors.Wrap(err, "reading active year")}
	}
	outLabel := active.Label
	outNum, _ := active.StartYearNum()

	svc.logger.Info(fmt.Sprintf("transition: %s -> %s", outLabel, nt.NewYearLabel))

	// Step 1: archive the outgoing year's payments. Best-effort: a failure
	// here is logged and the transition continues.
	svc.archivePayments(ctx, outLabel, outNum)

	// Step 2: every student attached to the outgoing year.
	students, err := svc.students.FilterStudents(ctx, student.QueryFilter{YearLabel: outLabel})
	if err != nil {
		return Result{}, &Error{cause: pkgerrors.Wrap(err, "listing students")}
	}

	stats := schoolyear.TransitionStats{TotalStudents: len(students)}

	// Step 3: one student fully processed before the next begins.
	for _, std := range students {
		if err := svc.processStudent(ctx, std, outLabel, nt.NewYearLabel, newYearNum, &stats); err != nil {
			return Result{}, &Error{cause: err}
		}
	}

	// Step 4: persist the statistics on the outgoing year, then retire it.
	if _, err := svc.years.SaveTransitionStats(ctx, active.ID, stats); err != nil {
		return Result{}, &Error{cause: pkgerrors.Wrap(err, "saving transition stats")}
	}
	if _, err := svc.years.Archive(ctx, active.ID); err != nil {
		return Result{}, &Error{cause: pkgerrors.Wrap(err, "archiving outgoing year")}
	}

	// Step 5: activate the target year, creating it when it does not exist.
	newYear, err := svc.years.GetByLabel(ctx, nt.NewYearLabel)
	switch err {
	case nil:
		if newYear, err = svc.years.SetActive(ctx, newYear.ID); err != nil {
			return Result{}, &Error{cause: pkgerrors.Wrap(err, "activating existing year")}
		}
	case schoolyear.ErrNotFound:
		if newYear, err = svc.years.CreateActive(ctx, nt.NewYearLabel, nt.StartDate, nt.EndDate); err != nil {
			return Result{}, &Error{cause: pkgerrors.Wrap(err, "creating new year")}
		}
	default:
		return Result{}, &Error{cause: pkgerrors.Wrap(err, "resolving new year")}
	}

	// fire-and-forget
	svc.notifier.Emit(EventYearChanged, Event{NewYear: newYear, Stats: stats})

	return Result{Stats: stats, NewYear: newYear}, nil
}

// archivePayments snapshots and removes every payment attached to the
// outgoing year, matched on its label or, when the label has a numeric
// prefix, on the numeric year.
func (svc *Service) archivePayments(ctx context.Context, outLabel string, outNum int) {
	payments, err := svc.payments.QueryPaymentsForYear(ctx, outLabel, outNum)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("transition: archiving payments for %s: %v", outLabel, err), err)
		return
	}
	if len(payments) == 0 {
		return
	}
	if _, err := svc.archives.SnapshotPaymentBatch(ctx, outLabel, outNum, payments); err != nil {
		svc.logger.Error(fmt.Sprintf("transition: archiving payments for %s: %v", outLabel, err), err)
		return
	}
	if err := svc.payments.DeletePaymentsForYear(ctx, outLabel, outNum); err != nil {
		svc.logger.Error(fmt.Sprintf("transition: clearing archived payments for %s: %v", outLabel, err), err)
	}
}

// processStudent decides one student's outcome, migrates or retires them and
// writes their snapshot. The snapshot always carries the pre-transition
// class and level.
func (svc *Service) processStudent(
	ctx context.Context,
	std student.Student,
	outLabel, newLabel string,
	newYearNum int,
	stats *schoolyear.TransitionStats,
) error {
	average, err := svc.grades.StudentAverage(ctx, std.EnrollmentNumber, outLabel)
	if err != nil {
		return pkgerrors.Wrapf(err, "computing average of %s", std.EnrollmentNumber)
	}

	snapshot := std // pre-transition state for the archive
	var decision archive.Decision
	var nextClass string

	if average >= passingAverage {
		if next, ok := student.NextClass(std.Class, std.Level); ok {
			decision = archive.DecisionAdmitted
			nextClass = next

			std.Class = next
			std.YearLabel = newLabel
			if _, err := svc.students.UpdateStudent(ctx, std); err != nil {
				return pkgerrors.Wrapf(err, "promoting %s", std.EnrollmentNumber)
			}
			if err := svc.resetPayments(ctx, std.EnrollmentNumber, newLabel, newYearNum); err != nil {
				return err
			}
			stats.Admitted++
		} else {
			// Last class of the level: the student exits the school and is
			// not carried over to the new year. The archived decision agrees
			// with the statistics.
			decision = archive.DecisionExiting
			stats.Exiting++
		}
	} else {
		decision = archive.DecisionRepeat
		std.YearLabel = newLabel // same class, new year
		if _, err := svc.students.UpdateStudent(ctx, std); err != nil {
			return pkgerrors.Wrapf(err, "carrying over %s", std.EnrollmentNumber)
		}
		if err := svc.resetPayments(ctx, std.EnrollmentNumber, newLabel, newYearNum); err != nil {
			return err
		}
		stats.Repeating++
	}

	grades, err := svc.grades.Filter(ctx, grade.QueryFilter{
		EnrollmentNumber: std.EnrollmentNumber,
		YearLabel:        outLabel,
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "reading grades of %s", std.EnrollmentNumber)
	}
	if _, err := svc.archives.SnapshotStudent(ctx, snapshot, outLabel, average, decision, nextClass, grades); err != nil {
		return pkgerrors.Wrapf(err, "archiving %s", std.EnrollmentNumber)
	}
	return nil
}

// resetPayments guards against re-running a transition: any payment already
// recorded for the student under the new year is removed before the student
// starts fresh.
func (svc *Service) resetPayments(ctx context.Context, enrollmentNumber, newLabel string, newYearNum int) error {
	if err := svc.payments.DeleteStudentPaymentsForYear(ctx, enrollmentNumber, newLabel, newYearNum); err != nil {
		return pkgerrors.Wrapf(err, "resetting payments of %s", enrollmentNumber)
	}
	return nil
}
