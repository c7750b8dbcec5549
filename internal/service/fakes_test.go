package service

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/repository"
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories. Values are deep-copied through JSON on the way
// in and out so tests catch services that rely on aliasing.

func deepCopy[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.Plan
	saves int
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: map[primitive.ObjectID]domain.Plan{}}
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	plan.Version = 1
	plan.CreatedAt = time.Now().UTC()
	plan.UpdatedAt = plan.CreatedAt
	r.plans[plan.ID] = deepCopy(*plan)
	return plan.ID, nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = deepCopy(p)
	return &p, nil
}

func (r *memPlanRepo) GetByClientAndTrainerID(_ context.Context, clientID, trainerID primitive.ObjectID) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Plan
	for _, p := range r.plans {
		if p.ClientID == clientID && p.TrainerID == trainerID {
			out = append(out, deepCopy(p))
		}
	}
	return out, nil
}

func (r *memPlanRepo) Save(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != plan.Version {
		return repository.ErrVersionConflict
	}
	plan.Version++
	plan.UpdatedAt = time.Now().UTC()
	r.plans[plan.ID] = deepCopy(*plan)
	r.saves++
	return nil
}

func (r *memPlanRepo) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type memLogRepo struct {
	mu   sync.Mutex
	logs map[primitive.ObjectID]domain.WorkoutLog
}

func newMemLogRepo() *memLogRepo {
	return &memLogRepo{logs: map[primitive.ObjectID]domain.WorkoutLog{}}
}

func (r *memLogRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) (*domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[planID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	l = deepCopy(l)
	return &l, nil
}

func (r *memLogRepo) Upsert(_ context.Context, l *domain.WorkoutLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[l.PlanID] = deepCopy(*l)
	return nil
}

func (r *memLogRepo) DeleteByPlanID(_ context.Context, planID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logs, planID)
	return nil
}

type memTemplateRepo struct {
	mu        sync.Mutex
	templates map[primitive.ObjectID]domain.Template
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{templates: map[primitive.ObjectID]domain.Template{}}
}

func (r *memTemplateRepo) Create(_ context.Context, tpl *domain.Template) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl.ID = primitive.NewObjectID()
	tpl.CreatedAt = time.Now().UTC()
	tpl.UpdatedAt = tpl.CreatedAt
	r.templates[tpl.ID] = deepCopy(*tpl)
	return tpl.ID, nil
}

func (r *memTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t = deepCopy(t)
	return &t, nil
}

func (r *memTemplateRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID, kind domain.TemplateKind) ([]domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Template
	for _, t := range r.templates {
		if t.TrainerID == trainerID && (kind == "" || t.Kind == kind) {
			out = append(out, deepCopy(t))
		}
	}
	return out, nil
}

func (r *memTemplateRepo) Update(_ context.Context, tpl *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[tpl.ID]; !ok {
		return repository.ErrNotFound
	}
	tpl.UpdatedAt = time.Now().UTC()
	r.templates[tpl.ID] = deepCopy(*tpl)
	return nil
}

func (r *memTemplateRepo) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[id]
	if !ok || t.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://media.test/" + key + "?expires=" + expires.String(), nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}
