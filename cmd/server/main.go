package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ratishjain12/devx-rms/internal/adapters/http/handler"
	"github.com/ratishjain12/devx-rms/internal/adapters/repository/postgres"
	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	"github.com/ratishjain12/devx-rms/internal/core/employee"
	"github.com/ratishjain12/devx-rms/internal/core/project"
	"github.com/ratishjain12/devx-rms/internal/core/report"
	"github.com/ratishjain12/devx-rms/internal/platform/config"
	pg "github.com/ratishjain12/devx-rms/internal/platform/db/postgres"
	"github.com/ratishjain12/devx-rms/internal/platform/server"
)

func main() {
	// .env は任意。存在しなければ環境変数のみを使う
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	assignmentRepo := postgres.NewAssignmentRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)

	router := handler.NewRouter(handler.Dependencies{
		Assignments:    assignment.NewService(assignmentRepo, nil, txManager),
		Employees:      employee.NewService(employeeRepo, nil, txManager),
		Projects:       project.NewService(projectRepo, nil, txManager),
		Reports:        report.NewService(assignmentRepo, employeeRepo, txManager, cfg.Reports.Threshold()),
		Health:         dbPool,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := server.New(cfg.Server, router, dbPool)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
