package handler

import (
	"github.com/liftlog/internal/metrics"
	"github.com/liftlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	users     *service.UserService
	templates *service.TemplateService
	plans     *service.PlanService
	exercises *service.ExerciseService
	ledger    *service.LedgerService
	logs      *service.WorkoutLogService
	analytics *service.AnalyticsService
	status    *service.TrainingStatusService
}

// NewAPI constructs a handler set with shared services. m may be nil.
func NewAPI(db *gorm.DB, m *metrics.Manager) *API {
	owners := service.NewOwnershipResolver(m)

	return &API{
		db:        db,
		users:     service.NewUserService(db),
		templates: service.NewTemplateService(db, owners),
		plans:     service.NewPlanService(db, owners),
		exercises: service.NewExerciseService(db, owners, m),
		ledger:    service.NewLedgerService(db, owners),
		logs:      service.NewWorkoutLogService(db, owners, m),
		analytics: service.NewAnalyticsService(db),
		status:    service.NewTrainingStatusService(db),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
