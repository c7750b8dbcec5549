package service

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/editor"
	"alcyxob/coach-dashboard/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanAccessDenied = errors.New("access denied to this plan")
	ErrInvalidPlan      = errors.New("plan validation failed")
	ErrInvalidCommand   = errors.New("command rejected")
	ErrBatchTooLarge    = errors.New("too many commands in one batch")
	ErrVersionConflict  = errors.New("plan was changed by someone else, reload and retry")
)

// PlanService is the host side of the editor: it loads a plan and its logs,
// runs commands through the reducer and stores the resulting snapshot.
type PlanService interface {
	CreatePlan(ctx context.Context, trainerID, clientID primitive.ObjectID, name string, schema domain.Schema, days int) (*domain.Plan, error)
	GetPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*editor.State, error)
	ListPlans(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Plan, error)
	SavePlan(ctx context.Context, trainerID primitive.ObjectID, plan domain.Plan) (*domain.Plan, error)
	DeletePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error
	Apply(ctx context.Context, trainerID, planID primitive.ObjectID, cmds []editor.Command) (*editor.State, error)
	Progress(ctx context.Context, trainerID, planID primitive.ObjectID) (*editor.Summary, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.PlanRepository
	logRepo  repository.WorkoutLogRepository
	reducer  *editor.Reducer
	maxBatch int
	locks    *planLocks
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, logRepo repository.WorkoutLogRepository, opts editor.Options, maxBatch int) PlanService {
	return &planService{
		planRepo: planRepo,
		logRepo:  logRepo,
		reducer:  editor.NewReducer(opts),
		maxBatch: maxBatch,
		locks:    newPlanLocks(),
	}
}

// CreatePlan stores a new plan with the given number of blank days.
func (s *planService) CreatePlan(ctx context.Context, trainerID, clientID primitive.ObjectID, name string, schema domain.Schema, days int) (*domain.Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: trainer ID and client ID are required", ErrInvalidPlan)
	}
	schema, err := domain.ParseSchema(string(schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if days < 0 || (s.maxBatch > 0 && days > s.maxBatch) {
		return nil, fmt.Errorf("%w: cannot start with %d days", ErrInvalidPlan, days)
	}

	plan := domain.Plan{
		TrainerID: trainerID,
		ClientID:  clientID,
		Schema:    schema,
		Name:      name,
		Days:      []domain.Day{},
	}
	for i := 0; i < days; i++ {
		if plan, err = editor.AddDay(plan, editor.Blank()); err != nil {
			return nil, err
		}
	}

	planID, err := s.planRepo.Create(ctx, &plan)
	if err != nil {
		log.Printf("ERROR: Failed to create plan for client %s: %v", clientID.Hex(), err)
		return nil, err
	}
	plan.ID = planID
	return &plan, nil
}

// GetPlan returns the plan together with its tracking side-table.
func (s *planService) GetPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*editor.State, error) {
	plan, err := s.loadOwned(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	tracking, err := s.loadTracking(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &editor.State{Plan: *plan, Tracking: tracking}, nil
}

// ListPlans retrieves all plans a trainer made for a client, newest first.
func (s *planService) ListPlans(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Plan, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: trainer ID and client ID are required", ErrInvalidPlan)
	}
	return s.planRepo.GetByClientAndTrainerID(ctx, clientID, trainerID)
}

// SavePlan replaces the stored plan with a full snapshot. plan.Version must
// be the version the snapshot was based on. An empty schema keeps the stored
// one; a different schema is rejected.
func (s *planService) SavePlan(ctx context.Context, trainerID primitive.ObjectID, plan domain.Plan) (*domain.Plan, error) {
	if plan.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	unlock := s.locks.lock(plan.ID)
	defer unlock()

	existing, err := s.loadOwned(ctx, trainerID, plan.ID)
	if err != nil {
		return nil, err
	}
	if plan.Schema == "" {
		plan.Schema = existing.Schema
	}
	if existing.Schema != "" && plan.Schema != existing.Schema {
		return nil, fmt.Errorf("%w: schema cannot change from %s to %s", ErrInvalidPlan, existing.Schema, plan.Schema)
	}
	next, err := editor.Normalize(plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	// Ownership and creation data are not part of the snapshot.
	next.TrainerID = existing.TrainerID
	next.ClientID = existing.ClientID
	next.CreatedAt = existing.CreatedAt

	tracking, err := s.loadTracking(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, &next, editor.Prune(next, tracking), len(tracking) > 0); err != nil {
		return nil, err
	}
	return &next, nil
}

// DeletePlan removes a plan and everything logged against it.
func (s *planService) DeletePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	unlock := s.locks.lock(planID)
	defer unlock()

	if _, err := s.loadOwned(ctx, trainerID, planID); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, planID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if err := s.logRepo.DeleteByPlanID(ctx, planID); err != nil {
		// The plan is gone already; an orphaned log is harmless.
		log.Printf("ERROR: Failed to delete workout log of plan %s: %v", planID.Hex(), err)
	}
	return nil
}

// Apply runs a batch of commands against the stored plan. Either every
// command applies and the result is stored, or nothing changes.
func (s *planService) Apply(ctx context.Context, trainerID, planID primitive.ObjectID, cmds []editor.Command) (*editor.State, error) {
	if len(cmds) == 0 {
		return nil, fmt.Errorf("%w: no commands", ErrInvalidCommand)
	}
	if s.maxBatch > 0 && len(cmds) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(cmds), s.maxBatch)
	}

	unlock := s.locks.lock(planID)
	defer unlock()

	state, err := s.GetPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	hadLog := len(state.Tracking) > 0

	next, err := s.reducer.ReduceAll(*state, cmds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if err := s.store(ctx, &next.Plan, next.Tracking, hadLog); err != nil {
		return nil, err
	}
	return &next, nil
}

// Progress summarizes completion of the plan using its current logs.
func (s *planService) Progress(ctx context.Context, trainerID, planID primitive.ObjectID) (*editor.Summary, error) {
	state, err := s.GetPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	summary := editor.Summarize(state.Plan, state.Tracking)
	return &summary, nil
}

// store saves the plan snapshot and then its logs. The log is only written
// when there is, or was, something in it.
func (s *planService) store(ctx context.Context, plan *domain.Plan, tracking domain.Tracking, hadLog bool) error {
	if err := s.planRepo.Save(ctx, plan); err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			return ErrVersionConflict
		case errors.Is(err, repository.ErrNotFound):
			return ErrPlanNotFound
		}
		log.Printf("ERROR: Failed to save plan %s: %v", plan.ID.Hex(), err)
		return err
	}

	if len(tracking) == 0 && !hadLog {
		return nil
	}
	wl := &domain.WorkoutLog{
		PlanID:    plan.ID,
		ClientID:  plan.ClientID,
		Tracking:  tracking,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.logRepo.Upsert(ctx, wl); err != nil {
		log.Printf("ERROR: Plan %s saved at version %d but its workout log was not: %v", plan.ID.Hex(), plan.Version, err)
		return err
	}
	return nil
}

func (s *planService) loadOwned(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.Plan, error) {
	if planID == primitive.NilObjectID {
		return nil, ErrPlanNotFound
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

func (s *planService) loadTracking(ctx context.Context, planID primitive.ObjectID) (domain.Tracking, error) {
	wl, err := s.logRepo.GetByPlanID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Tracking{}, nil
		}
		return nil, err
	}
	if wl.Tracking == nil {
		return domain.Tracking{}, nil
	}
	return wl.Tracking, nil
}

// planLocks serializes writers of the same plan inside this process.
type planLocks struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*planLock
}

type planLock struct {
	mu   sync.Mutex
	refs int
}

func newPlanLocks() *planLocks {
	return &planLocks{locks: make(map[primitive.ObjectID]*planLock)}
}

// lock blocks until the caller holds the plan and returns the release func.
func (l *planLocks) lock(id primitive.ObjectID) func() {
	l.mu.Lock()
	pl, ok := l.locks[id]
	if !ok {
		pl = &planLock{}
		l.locks[id] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
