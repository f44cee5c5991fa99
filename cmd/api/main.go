package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/config"
	appHTTP "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/handler/http"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/email"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/jwt"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/oauth"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/storage"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
	auditService "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/service/audit"
	serviceAuth "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/service/auth"
	documentService "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/service/document"
	scheduleService "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/service/schedule"
	timeclockService "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/service/timeclock"
	timesheetService "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/service/timesheet"
	userService "github.com/outreachmedicalstaffing/staffing-app-sub003/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	templateRepo := postgresql.NewShiftTemplateRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	auditRepo := postgresql.NewAuditLogRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	authService := serviceAuth.NewAuthService(db, userRepo, JWTService, refreshTokenRepo)
	usersService := userService.NewUserService(db, userRepo, auditRepo, emailService, cfg)
	schedulesService := scheduleService.NewScheduleService(
		db,
		scheduleRepo,
		templateRepo,
		shiftRepo,
		assignmentRepo,
		userRepo,
		auditRepo,
	)
	timeclockSvc := timeclockService.NewTimeclockService(db, timeEntryRepo, shiftRepo, auditRepo, fileStorage)
	timesheetSvc := timesheetService.NewTimesheetService(
		db,
		timesheetRepo,
		timeEntryRepo,
		userRepo,
		auditRepo,
		cfg.Payroll.WeeklyOvertimeThresholdHours,
	)
	documentSvc := documentService.NewDocumentService(db, documentRepo, userRepo, auditRepo, fileStorage, emailService, cfg.Documents.ExpiryWarningDays)
	auditSvc := auditService.NewAuditLogService(auditRepo)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		JWTService:       JWTService,
		AuthHandler:      appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL),
		UserHandler:      appHTTP.NewUserHandler(usersService),
		ScheduleHandler:  appHTTP.NewScheduleHandler(schedulesService),
		ShiftHandler:     appHTTP.NewShiftHandler(schedulesService),
		TimeclockHandler: appHTTP.NewTimeclockHandler(timeclockSvc),
		TimesheetHandler: appHTTP.NewTimesheetHandler(timesheetSvc),
		DocumentHandler:  appHTTP.NewDocumentHandler(documentSvc),
		AuditHandler:     appHTTP.NewAuditHandler(auditSvc),
		FrontendURL:      cfg.App.FrontendURL,
		Env:              cfg.App.Env,
	})

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
