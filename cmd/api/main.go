package main

import (
	"fmt"
	"net/http"

	"github.com/zedbooks/accounting-backend-go/internal/config"
	appHTTP "github.com/zedbooks/accounting-backend-go/internal/handler/http"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/jwt"
	"github.com/zedbooks/accounting-backend-go/internal/repository/postgresql"
	advanceService "github.com/zedbooks/accounting-backend-go/internal/service/advance"
	ledgerService "github.com/zedbooks/accounting-backend-go/internal/service/ledger"
	payrollService "github.com/zedbooks/accounting-backend-go/internal/service/payroll"
	taxrateService "github.com/zedbooks/accounting-backend-go/internal/service/taxrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	taxRateRepo := postgresql.NewTaxRateRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	journalRepo := postgresql.NewJournalRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	taxRateSvc := taxrateService.NewTaxRateService(taxRateRepo)
	advanceSvc := advanceService.NewAdvanceService(advanceRepo, employeeRepo)
	ledgerSvc := ledgerService.NewLedgerService(journalRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		taxRateRepo,
		periodRepo,
		advanceSvc,
		ledgerSvc,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	advanceHandler := appHTTP.NewAdvanceHandler(advanceSvc)
	taxRateHandler := appHTTP.NewTaxRateHandler(taxRateSvc)
	ledgerHandler := appHTTP.NewLedgerHandler(ledgerSvc)

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.Env,
		payrollHandler,
		advanceHandler,
		taxRateHandler,
		ledgerHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
