package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paiero-app/paiero-backend-go/internal/domain/employee"
	"github.com/paiero-app/paiero-backend-go/internal/domain/loan"
	"github.com/paiero-app/paiero-backend-go/internal/domain/payconfig"
	"github.com/paiero-app/paiero-backend-go/internal/domain/payroll"
	"github.com/paiero-app/paiero-backend-go/internal/domain/salaryscale"
	"github.com/paiero-app/paiero-backend-go/internal/domain/tax"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
	"github.com/paiero-app/paiero-backend-go/internal/repository/postgresql"
)

type PayrollServiceImpl struct {
	db            *database.DB
	periodRepo    payroll.PeriodRepository
	recordRepo    payroll.RecordRepository
	employeeRepo  employee.EmployeeRepository
	scaleRepo     salaryscale.Repository
	taxRepo       tax.Repository
	payConfigRepo payconfig.Repository
	loanRepo      loan.Repository

	// Fallback when a rate set row carries no standard day count.
	defaultStandardDays int

	// One writer per period. The keyed mutex serializes runs and
	// finalization targeting the same period; different periods proceed
	// in parallel.
	mu          sync.Mutex
	periodLocks map[string]*sync.Mutex
}

func NewPayrollService(
	db *database.DB,
	periodRepo payroll.PeriodRepository,
	recordRepo payroll.RecordRepository,
	employeeRepo employee.EmployeeRepository,
	scaleRepo salaryscale.Repository,
	taxRepo tax.Repository,
	payConfigRepo payconfig.Repository,
	loanRepo loan.Repository,
	defaultStandardDays int,
) payroll.Service {
	return &PayrollServiceImpl{
		db:                  db,
		periodRepo:          periodRepo,
		recordRepo:          recordRepo,
		employeeRepo:        employeeRepo,
		scaleRepo:           scaleRepo,
		taxRepo:             taxRepo,
		payConfigRepo:       payConfigRepo,
		loanRepo:            loanRepo,
		defaultStandardDays: defaultStandardDays,
		periodLocks:         map[string]*sync.Mutex{},
	}
}

func (s *PayrollServiceImpl) lockPeriod(periodID string) func() {
	s.mu.Lock()
	l, ok := s.periodLocks[periodID]
	if !ok {
		l = &sync.Mutex{}
		s.periodLocks[periodID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *PayrollServiceImpl) OpenPeriod(ctx context.Context, req payroll.OpenPeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	p := payroll.Period{StartDate: start, EndDate: end}
	if req.PaymentDate != nil {
		pay, _ := time.Parse("2006-01-02", *req.PaymentDate)
		p.PaymentDate = &pay
	}

	created, err := s.periodRepo.Create(ctx, p)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(created), nil
}

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context) ([]payroll.PeriodResponse, error) {
	periods, err := s.periodRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, payroll.NewPeriodResponse(p))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	p, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(p), nil
}

func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, periodID string, req payroll.RunPayrollRequest) (payroll.RunReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunReportResponse{}, err
	}

	unlock := s.lockPeriod(periodID)
	defer unlock()

	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return payroll.RunReportResponse{}, err
	}
	if period.Finalized {
		return payroll.RunReportResponse{}, payroll.ErrPeriodFinalized
	}

	// The whole batch shares one rule set, resolved at the period end
	// date. A broken configuration fails the run before any employee is
	// touched.
	cfg, err := s.loadConfig(ctx, period.EndDate)
	if err != nil {
		return payroll.RunReportResponse{}, err
	}

	employees, err := s.selectEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.RunReportResponse{}, err
	}

	withRecord, err := s.recordRepo.EmployeeIDsWithRecord(ctx, periodID)
	if err != nil {
		return payroll.RunReportResponse{}, err
	}
	hasRecord := make(map[string]bool, len(withRecord))
	for _, id := range withRecord {
		hasRecord[id] = true
	}

	// Explicitly naming an already-computed employee without asking
	// for a recomputation is a conflict, not a silent overwrite.
	if !req.Recompute && len(req.EmployeeIDs) > 0 {
		for _, emp := range employees {
			if hasRecord[emp.ID] {
				return payroll.RunReportResponse{}, fmt.Errorf("employee %s: %w", emp.Code, payroll.ErrRecordExists)
			}
		}
	}

	inputs := map[string]payroll.EmployeeRunInput{}
	for _, in := range req.Inputs {
		inputs[in.EmployeeID] = in
	}

	report := payroll.RunReport{PeriodID: periodID, Failures: map[string]string{}}
	for _, emp := range employees {
		if !emp.IsActive {
			report.Skipped++
			continue
		}
		if hasRecord[emp.ID] && !req.Recompute {
			report.Skipped++
			continue
		}

		var rec payroll.Record
		err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
			// Row lock on the period so a finalize racing from another
			// process cannot interleave with this unit of work.
			locked, txErr := s.periodRepo.GetByIDForUpdate(txCtx, periodID)
			if txErr != nil {
				return txErr
			}
			if locked.Finalized {
				return payroll.ErrPeriodFinalized
			}
			rec, txErr = s.computeEmployee(txCtx, period, emp, cfg, inputs[emp.ID])
			return txErr
		})
		if errors.Is(err, payroll.ErrPeriodFinalized) {
			return payroll.RunReportResponse{}, err
		}
		if err != nil {
			slog.Warn("payroll computation failed",
				"period_id", periodID,
				"employee_code", emp.Code,
				"error", err,
			)
			report.Failures[emp.Code] = err.Error()
			continue
		}
		report.Calculated = append(report.Calculated, rec)
	}

	slog.Info("payroll run completed",
		"period_id", periodID,
		"calculated", len(report.Calculated),
		"skipped", report.Skipped,
		"failed", len(report.Failures),
	)
	return payroll.NewRunReportResponse(report), nil
}

func (s *PayrollServiceImpl) selectEmployees(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return s.employeeRepo.ListActive(ctx)
	}
	employees := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// computeEmployee is the atomic unit of work for one employee: it
// resolves the scale and allowances, computes the record, upserts it
// and moves the loan balances, all inside the caller's transaction.
func (s *PayrollServiceImpl) computeEmployee(
	ctx context.Context,
	period payroll.Period,
	emp employee.Employee,
	cfg payroll.CalcConfig,
	input payroll.EmployeeRunInput,
) (payroll.Record, error) {
	entry, err := s.scaleRepo.ResolveAsOf(ctx, emp.CategoryCode, period.EndDate)
	if err != nil {
		if errors.Is(err, salaryscale.ErrEntryNotFound) {
			return payroll.Record{}, fmt.Errorf("no salary scale entry for category %s: %w", emp.CategoryCode, err)
		}
		return payroll.Record{}, err
	}

	rows, err := s.payConfigRepo.EmployeeAllowancesAsOf(ctx, emp.ID, period.EndDate)
	if err != nil {
		return payroll.Record{}, err
	}
	lines := make([]payroll.AllowanceLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, payroll.AllowanceLine{TypeCode: row.TypeCode, Amount: row.Amount})
	}

	daysWorked := cfg.Rates.StandardDays
	if input.DaysWorked != nil {
		daysWorked = *input.DaysWorked
	}
	daysAbsent := 0
	if input.DaysAbsent != nil {
		daysAbsent = *input.DaysAbsent
		if input.DaysWorked == nil {
			daysWorked = cfg.Rates.StandardDays - daysAbsent
			if daysWorked < 0 {
				daysWorked = 0
			}
		}
	}

	// Loan deductions, counting what an earlier run of this period
	// already withheld so that recomputing replaces instead of
	// double-charging.
	type loanDue struct {
		loan    loan.Loan
		applied decimal.Decimal
		due     decimal.Decimal
	}
	loans, err := s.loanRepo.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return payroll.Record{}, err
	}
	var dues []loanDue
	totalDue := decimal.Zero
	for _, l := range loans {
		applied := decimal.Zero
		p, err := s.loanRepo.GetAppliedPayment(ctx, l.ID, period.ID)
		switch {
		case err == nil:
			applied = p.ActualAmount
		case errors.Is(err, loan.ErrPaymentNotFound):
		default:
			return payroll.Record{}, err
		}
		if !l.IsActive && applied.IsZero() {
			continue
		}
		due := loan.DeductionForPeriod(l, applied)
		if due.IsZero() && applied.IsZero() {
			continue
		}
		// A loan whose next installment is not due yet stays out of
		// this period; recomputation keeps one it already touched.
		if applied.IsZero() {
			schedule, err := s.loanRepo.GetSchedule(ctx, l.ID)
			if err != nil {
				return payroll.Record{}, err
			}
			if !loan.InstallmentDue(schedule, period.EndDate) {
				continue
			}
		}
		dues = append(dues, loanDue{loan: l, applied: applied, due: due})
		totalDue = totalDue.Add(due)
	}

	rec := payroll.ComputeRecord(payroll.CalcInput{
		EmployeeID:    emp.ID,
		BaseSalary:    entry.AdjustedBase,
		StatusCode:    emp.StatusCode,
		DaysWorked:    daysWorked,
		DaysAbsent:    daysAbsent,
		Allowances:    lines,
		LoanDeduction: totalDue,
	}, cfg)
	rec.PeriodID = period.ID

	// Allocate the capped deduction back to the loans, oldest first.
	capLeft := rec.LoanDeduction
	for _, d := range dues {
		amount := d.due
		if amount.GreaterThan(capLeft) {
			amount = capLeft
		}
		capLeft = capLeft.Sub(amount)
		if amount.Equal(d.applied) && amount.IsZero() {
			continue
		}
		if err := s.loanRepo.ApplyPayment(ctx, d.loan.ID, period.ID, amount); err != nil {
			return payroll.Record{}, err
		}
	}

	return s.recordRepo.Upsert(ctx, rec)
}

// loadConfig assembles the effective-dated rule set for one run and
// builds the validated tax engine from it.
func (s *PayrollServiceImpl) loadConfig(ctx context.Context, asOf time.Time) (payroll.CalcConfig, error) {
	rates, err := s.payConfigRepo.RatesAsOf(ctx, asOf)
	if err != nil {
		return payroll.CalcConfig{}, err
	}
	if rates.StandardDays <= 0 {
		rates.StandardDays = s.defaultStandardDays
	}
	if err := rates.Validate(); err != nil {
		return payroll.CalcConfig{}, fmt.Errorf("rate set effective %s is invalid: %w", asOf.Format("2006-01-02"), err)
	}
	types, err := s.payConfigRepo.AllowanceTypesAsOf(ctx, asOf)
	if err != nil {
		return payroll.CalcConfig{}, err
	}
	familyRows, err := s.payConfigRepo.FamilyAllowancesAsOf(ctx, asOf)
	if err != nil {
		return payroll.CalcConfig{}, err
	}
	family := make(map[string]decimal.Decimal, len(familyRows))
	for code, fa := range familyRows {
		family[code] = fa.Amount
	}

	brackets, err := s.taxRepo.BracketsAsOf(ctx, asOf)
	if err != nil {
		return payroll.CalcConfig{}, err
	}
	reductions, err := s.taxRepo.ReductionsAsOf(ctx, asOf)
	if err != nil {
		return payroll.CalcConfig{}, err
	}
	engine, err := tax.NewEngine(brackets, reductions)
	if err != nil {
		return payroll.CalcConfig{}, fmt.Errorf("tax bracket table effective %s is invalid: %w", asOf.Format("2006-01-02"), err)
	}

	return payroll.CalcConfig{
		Rates:            rates,
		AllowanceTypes:   types,
		FamilyAllowances: family,
		Tax:              engine,
	}, nil
}

func (s *PayrollServiceImpl) Finalize(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	unlock := s.lockPeriod(periodID)
	defer unlock()

	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		period, err := s.periodRepo.GetByIDForUpdate(txCtx, periodID)
		if err != nil {
			return err
		}
		if period.Finalized {
			return payroll.ErrPeriodFinalized
		}

		active, err := s.employeeRepo.ListActive(txCtx)
		if err != nil {
			return err
		}
		withRecord, err := s.recordRepo.EmployeeIDsWithRecord(txCtx, periodID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(withRecord))
		for _, id := range withRecord {
			seen[id] = true
		}
		var missing []string
		for _, emp := range active {
			if !seen[emp.ID] {
				missing = append(missing, emp.Code)
			}
		}
		if len(missing) > 0 {
			return &payroll.IncompleteDataError{MissingEmployees: missing}
		}

		return s.periodRepo.Finalize(txCtx, periodID)
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	slog.Info("payroll period finalized", "period_id", periodID)
	return s.GetPeriod(ctx, periodID)
}

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, periodID, employeeID string) (payroll.RecordResponse, error) {
	rec, err := s.recordRepo.GetByPeriodEmployee(ctx, periodID, employeeID)
	if err != nil {
		if errors.Is(err, payroll.ErrRecordNotFound) {
			// Distinguish a missing period from a missing record.
			if _, perr := s.periodRepo.GetByID(ctx, periodID); perr != nil {
				return payroll.RecordResponse{}, perr
			}
		}
		return payroll.RecordResponse{}, err
	}
	return payroll.NewRecordResponse(rec), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, periodID string) ([]payroll.RecordResponse, error) {
	if _, err := s.periodRepo.GetByID(ctx, periodID); err != nil {
		return nil, err
	}
	records, err := s.recordRepo.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	resp := make([]payroll.RecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, payroll.NewRecordResponse(rec))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, periodID string) (payroll.Summary, error) {
	if _, err := s.periodRepo.GetByID(ctx, periodID); err != nil {
		return payroll.Summary{}, err
	}
	return s.recordRepo.Summary(ctx, periodID)
}
