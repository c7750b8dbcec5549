package repository

import (
	"alcyxob/coach-dashboard/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound        = RepositoryError("not found")
	ErrVersionConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanRepository stores whole plan snapshots. There are no partial saves:
// Save replaces the stored plan if its version still matches.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetByClientAndTrainerID(ctx context.Context, clientID, trainerID primitive.ObjectID) ([]domain.Plan, error)
	// Save writes the snapshot when the stored version equals plan.Version
	// and bumps plan.Version. A mismatch returns ErrVersionConflict.
	Save(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error
}

// WorkoutLogRepository stores the tracking side-table of a plan.
type WorkoutLogRepository interface {
	// GetByPlanID returns ErrNotFound when nothing was logged yet.
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutLog, error)
	Upsert(ctx context.Context, log *domain.WorkoutLog) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error
}

// TemplateRepository stores a trainer's library of reusable slots.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.Template) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Template, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, kind domain.TemplateKind) ([]domain.Template, error)
	Update(ctx context.Context, tpl *domain.Template) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure trainer owns the template
}
