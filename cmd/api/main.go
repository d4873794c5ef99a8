package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/attendly/attendance-backend-go/internal/config"
	appHTTP "github.com/attendly/attendance-backend-go/internal/handler/http"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/cron"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	analyticsService "github.com/attendly/attendance-backend-go/internal/service/analytics"
	attendanceService "github.com/attendly/attendance-backend-go/internal/service/attendance"
	calendarService "github.com/attendly/attendance-backend-go/internal/service/calendar"
	reportService "github.com/attendly/attendance-backend-go/internal/service/report"
	rosterService "github.com/attendly/attendance-backend-go/internal/service/roster"
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
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	txManager := postgresql.NewTxManager(db)
	systemClock := clock.System()
	timeout := cfg.Database.PersistenceTimeout

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, txManager, systemClock, timeout)
	rosterSvc := rosterService.NewRosterService(employeeRepo, attendanceRepo, timeout)
	calendarSvc := calendarService.NewCalendarService(attendanceRepo, timeout)
	analyticsSvc := analyticsService.NewAnalyticsService(attendanceRepo, systemClock, timeout)
	reportSvc := reportService.NewReportService(employeeRepo, attendanceRepo, timeout)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, rosterSvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	analyticsHandler := appHTTP.NewAnalyticsHandler(analyticsSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		cfg,
		attendanceHandler,
		calendarHandler,
		analyticsHandler,
		reportHandler,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceSvc, attendanceRepo, employeeRepo, systemClock)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	_ = server.Close()
}
