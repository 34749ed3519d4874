package main

import (
	"fmt"
	"net/http"

	"github.com/paiero-app/paiero-backend-go/internal/config"
	appHTTP "github.com/paiero-app/paiero-backend-go/internal/handler/http"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/jwt"
	"github.com/paiero-app/paiero-backend-go/internal/repository/postgresql"
	employeeService "github.com/paiero-app/paiero-backend-go/internal/service/employee"
	loanService "github.com/paiero-app/paiero-backend-go/internal/service/loan"
	payrollService "github.com/paiero-app/paiero-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	scaleRepo := postgresql.NewSalaryScaleRepository(db)
	taxRepo := postgresql.NewTaxConfigRepository(db)
	payConfigRepo := postgresql.NewPayConfigRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, scaleRepo)
	loanSvc := loanService.NewLoanService(db, loanRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		periodRepo,
		recordRepo,
		employeeRepo,
		scaleRepo,
		taxRepo,
		payConfigRepo,
		loanRepo,
		cfg.Payroll.StandardDays,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	loanHandler := appHTTP.NewLoanHandler(loanSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	configHandler := appHTTP.NewConfigHandler(taxRepo, payConfigRepo, scaleRepo)

	router := appHTTP.NewRouter(
		jwtService,
		payrollHandler,
		loanHandler,
		employeeHandler,
		configHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
