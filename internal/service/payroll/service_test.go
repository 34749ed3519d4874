package payroll

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiero-app/paiero-backend-go/internal/domain/loan"
	"github.com/paiero-app/paiero-backend-go/internal/domain/payroll"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
	"github.com/paiero-app/paiero-backend-go/internal/repository/postgresql"
	loanService "github.com/paiero-app/paiero-backend-go/internal/service/loan"
)

var testDB *database.DB

// payrollTestInit connects to the integration database. Tests are
// skipped when TEST_DATABASE_URL is unset; the schema from migrations/
// must already be applied.
func payrollTestInit(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	if testDB != nil {
		return
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
}

func truncateTables(t *testing.T, ctx context.Context) {
	t.Helper()
	tables := []string{
		"loan_payments", "loans", "payroll_records", "payroll_periods",
		"employee_allowances", "employees", "salary_scale_entries",
		"tax_brackets", "tax_family_reductions", "payroll_rate_sets",
		"allowance_types", "family_allowances",
	}
	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

// seedConfig installs a flat 20% tax table and Mali contribution rates
// effective 2019-01-01.
func seedConfig(t *testing.T, ctx context.Context) {
	t.Helper()

	_, err := testDB.Exec(ctx, `
		INSERT INTO payroll_rate_sets (
			effective_date, inps_employee, inps_employer, amo_employee, amo_employer,
			taxe_logement, taxe_formation, taxe_emploi, contribution_cfe,
			transport_rate, standard_days
		) VALUES ('2019-01-01', 0.036, 0.164, 0.0306, 0.035, 0.01, 0.02, 0.02, 0.035, 0.10, 26)
	`)
	require.NoError(t, err)

	_, err = testDB.Exec(ctx, `
		INSERT INTO tax_brackets (min_income, max_income, rate, cumulative_tax, effective_date)
		VALUES (0, NULL, 0.20, 0, '2019-01-01')
	`)
	require.NoError(t, err)

	_, err = testDB.Exec(ctx, `
		INSERT INTO allowance_types (code, label, taxable, subject_to_social, effective_date) VALUES
			('TRANSPORT', 'Prime de transport', TRUE, FALSE, '2019-01-01'),
			('FAMILY', 'Allocations familiales', FALSE, FALSE, '2019-01-01')
	`)
	require.NoError(t, err)

	_, err = testDB.Exec(ctx, `
		INSERT INTO salary_scale_entries (
			id, category_code, effective_date, base_salary, adjusted_base
		) VALUES ($1, 'A1', '2019-01-01', 200000, 200000)
	`, uuid.New().String())
	require.NoError(t, err)
}

func seedEmployee(t *testing.T, ctx context.Context, code string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := testDB.Exec(ctx, `
		INSERT INTO employees (id, employee_code, full_name, hire_date, category_code, status_code, is_active)
		VALUES ($1, $2, 'Test Employee', '2020-01-01', 'A1', 'C0', TRUE)
	`, id, code)
	require.NoError(t, err)

	_, err = testDB.Exec(ctx, `
		INSERT INTO employee_allowances (employee_id, type_code, amount, effective_date)
		VALUES ($1, 'TRANSPORT', 20000, '2019-01-01')
	`, id)
	require.NoError(t, err)
	return id
}

func newTestServices(t *testing.T) (payroll.Service, loan.Service) {
	t.Helper()
	employeeRepo := postgresql.NewEmployeeRepository(testDB)
	scaleRepo := postgresql.NewSalaryScaleRepository(testDB)
	taxRepo := postgresql.NewTaxConfigRepository(testDB)
	payConfigRepo := postgresql.NewPayConfigRepository(testDB)
	loanRepo := postgresql.NewLoanRepository(testDB)
	periodRepo := postgresql.NewPeriodRepository(testDB)
	recordRepo := postgresql.NewRecordRepository(testDB)

	payrollSvc := NewPayrollService(
		testDB, periodRepo, recordRepo, employeeRepo,
		scaleRepo, taxRepo, payConfigRepo, loanRepo, 26,
	)
	loanSvc := loanService.NewLoanService(testDB, loanRepo, employeeRepo)
	return payrollSvc, loanSvc
}

func openTestPeriod(t *testing.T, ctx context.Context, svc payroll.Service) payroll.PeriodResponse {
	t.Helper()
	period, err := svc.OpenPeriod(ctx, payroll.OpenPeriodRequest{
		StartDate: "2026-07-01",
		EndDate:   "2026-07-31",
	})
	require.NoError(t, err)
	return period
}

func TestOpenPeriod_DuplicateBounds(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	svc, _ := newTestServices(t)

	openTestPeriod(t, ctx, svc)

	_, err := svc.OpenPeriod(ctx, payroll.OpenPeriodRequest{
		StartDate: "2026-07-01",
		EndDate:   "2026-07-31",
	})
	assert.ErrorIs(t, err, payroll.ErrPeriodExists)
}

func TestRunPayroll_ComputesAndRecomputes(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	empID := seedEmployee(t, ctx, "EMP001")
	svc, _ := newTestServices(t)
	period := openTestPeriod(t, ctx, svc)

	report, err := svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{})
	require.NoError(t, err)
	require.Len(t, report.Calculated, 1)
	assert.Empty(t, report.Failures)

	rec := report.Calculated[0]
	assert.True(t, rec.GrossSalary.Equal(decimal.NewFromInt(220000)), "gross: %s", rec.GrossSalary)
	assert.True(t, rec.ContributionBase.Equal(decimal.NewFromInt(200000)))
	assert.True(t, rec.IncomeTax.Equal(decimal.NewFromInt(41336)), "tax: %s", rec.IncomeTax)
	assert.True(t, rec.NetToPay.Equal(decimal.NewFromInt(165344)), "net: %s", rec.NetToPay)

	// Recomputing overwrites in place; still exactly one record with
	// the same values.
	report, err = svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{Recompute: true})
	require.NoError(t, err)
	require.Len(t, report.Calculated, 1)

	records, err := svc.ListRecords(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].NetToPay.Equal(decimal.NewFromInt(165344)))
	assert.Equal(t, empID, records[0].EmployeeID)
}

func TestRunPayroll_LoanDeductionIdempotent(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	empID := seedEmployee(t, ctx, "EMP001")
	svc, loanSvc := newTestServices(t)
	period := openTestPeriod(t, ctx, svc)

	registered, err := loanSvc.RegisterLoan(ctx, loan.RegisterLoanRequest{
		EmployeeID:     empID,
		Type:           "loan",
		TotalAmount:    decimal.NewFromInt(120000),
		GrantDate:      "2026-06-15",
		DurationMonths: 12,
	})
	require.NoError(t, err)

	for i, req := range []payroll.RunPayrollRequest{{}, {Recompute: true}} {
		report, err := svc.RunPayroll(ctx, period.ID, req)
		require.NoError(t, err)
		require.Len(t, report.Calculated, 1)
		assert.True(t, report.Calculated[0].LoanDeduction.Equal(decimal.NewFromInt(10000)),
			"run %d deduction: %s", i, report.Calculated[0].LoanDeduction)
	}

	// Two runs, one installment: the balance moved exactly once.
	got, err := loanSvc.GetLoan(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, got.RemainingBalance.Equal(decimal.NewFromInt(110000)),
		"balance: %s", got.RemainingBalance)
}

func TestRunPayroll_PlainRerunKeepsOverrides(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	empID := seedEmployee(t, ctx, "EMP001")
	svc, _ := newTestServices(t)
	period := openTestPeriod(t, ctx, svc)

	days := 13
	report, err := svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{
		Inputs: []payroll.EmployeeRunInput{{EmployeeID: empID, DaysWorked: &days}},
	})
	require.NoError(t, err)
	require.Len(t, report.Calculated, 1)
	halfMonthNet := report.Calculated[0].NetToPay

	// A plain re-run without inputs leaves the half-month record alone
	// instead of silently resetting it to a full standard month.
	report, err = svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{})
	require.NoError(t, err)
	assert.Empty(t, report.Calculated)
	assert.Equal(t, 1, report.Skipped)

	records, err := svc.ListRecords(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 13, records[0].DaysWorked)
	assert.True(t, records[0].NetToPay.Equal(halfMonthNet))

	// Asking for a recomputation is the explicit way to overwrite.
	report, err = svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{Recompute: true})
	require.NoError(t, err)
	require.Len(t, report.Calculated, 1)
	assert.Equal(t, 26, report.Calculated[0].DaysWorked)
}

func TestRunPayroll_ExplicitSelectionWithoutRecomputeConflicts(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	empID := seedEmployee(t, ctx, "EMP001")
	svc, _ := newTestServices(t)
	period := openTestPeriod(t, ctx, svc)

	_, err := svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{})
	require.NoError(t, err)

	_, err = svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{
		EmployeeIDs: []string{empID},
	})
	assert.ErrorIs(t, err, payroll.ErrRecordExists)
}

func TestRunPayroll_LoanNotDueYetNotWithheld(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	empID := seedEmployee(t, ctx, "EMP001")
	svc, loanSvc := newTestServices(t)
	period := openTestPeriod(t, ctx, svc)

	// Granted mid-period: the first installment falls due 2026-08-20,
	// after this period ends.
	registered, err := loanSvc.RegisterLoan(ctx, loan.RegisterLoanRequest{
		EmployeeID:     empID,
		Type:           "loan",
		TotalAmount:    decimal.NewFromInt(120000),
		GrantDate:      "2026-07-20",
		DurationMonths: 12,
	})
	require.NoError(t, err)

	report, err := svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{})
	require.NoError(t, err)
	require.Len(t, report.Calculated, 1)
	assert.True(t, report.Calculated[0].LoanDeduction.IsZero(),
		"deduction: %s", report.Calculated[0].LoanDeduction)

	got, err := loanSvc.GetLoan(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, got.RemainingBalance.Equal(decimal.NewFromInt(120000)),
		"balance: %s", got.RemainingBalance)
}

func TestFinalize_BlocksOnMissingRecords(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	seedEmployee(t, ctx, "EMP001")
	seedEmployee(t, ctx, "EMP002")
	svc, _ := newTestServices(t)
	period := openTestPeriod(t, ctx, svc)

	_, err := svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{})
	require.NoError(t, err)

	// A third employee hired after the run has no record yet.
	seedEmployee(t, ctx, "EMP003")

	_, err = svc.Finalize(ctx, period.ID)
	var incomplete *payroll.IncompleteDataError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"EMP003"}, incomplete.MissingEmployees)
}

func TestFinalize_LocksPeriod(t *testing.T) {
	payrollTestInit(t)
	ctx := context.Background()
	truncateTables(t, ctx)
	seedConfig(t, ctx)
	seedEmployee(t, ctx, "EMP001")
	svc, _ := newTestServices(t)
	period := openTestPeriod(t, ctx, svc)

	_, err := svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{})
	require.NoError(t, err)

	finalized, err := svc.Finalize(ctx, period.ID)
	require.NoError(t, err)
	assert.True(t, finalized.Finalized)

	// The flag is monotonic and every write path refuses afterwards.
	_, err = svc.Finalize(ctx, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodFinalized)
	_, err = svc.RunPayroll(ctx, period.ID, payroll.RunPayrollRequest{})
	assert.ErrorIs(t, err, payroll.ErrPeriodFinalized)
}
