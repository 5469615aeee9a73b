package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gestionet/timeclock-backend-go/internal/config"
	appHTTP "github.com/gestionet/timeclock-backend-go/internal/handler/http"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/clock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/cron"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/jwt"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/sse"
	"github.com/gestionet/timeclock-backend-go/internal/repository/postgresql"
	breakruleService "github.com/gestionet/timeclock-backend-go/internal/service/breakrule"
	correctionService "github.com/gestionet/timeclock-backend-go/internal/service/correction"
	employeecodeService "github.com/gestionet/timeclock-backend-go/internal/service/employeecode"
	notificationService "github.com/gestionet/timeclock-backend-go/internal/service/notification"
	timeclockService "github.com/gestionet/timeclock-backend-go/internal/service/timeclock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	recordRepo := postgresql.NewClockRecordRepository(db)
	pauseRepo := postgresql.NewPauseRepository(db)
	breakRuleRepo := postgresql.NewBreakRuleRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	codeRepo := postgresql.NewEmployeeCodeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	serverClock := clock.System()

	notifSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{})
	defer notifSvc.Stop()

	breakRuleSvc := breakruleService.NewBreakRuleService(breakRuleRepo)
	codeSvc := employeecodeService.NewEmployeeCodeService(codeRepo, employeeRepo)
	timeclockSvc := timeclockService.NewTimeclockService(
		recordRepo,
		pauseRepo,
		breakRuleSvc,
		auditRepo,
		notifSvc,
		serverClock,
		txManager,
	)
	correctionSvc := correctionService.NewCorrectionService(
		recordRepo,
		pauseRepo,
		auditRepo,
		employeeRepo,
		notifSvc,
		serverClock,
		txManager,
	)

	timeclockHandler := appHTTP.NewTimeclockHandler(timeclockSvc, codeSvc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc)
	breakRuleHandler := appHTTP.NewBreakRuleHandler(breakRuleSvc)
	codeHandler := appHTTP.NewEmployeeCodeHandler(codeSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notifSvc, jwtService)

	scheduler := cron.NewScheduler()
	cron.NewTimeclockJobs(timeclockSvc, cfg.Watchdog.SweepInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		timeclockHandler,
		correctionHandler,
		breakRuleHandler,
		codeHandler,
		notificationHandler,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
