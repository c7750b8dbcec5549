package api

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/editor"
	"alcyxob/coach-dashboard/internal/service"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubPlanService struct {
	err      error
	applied  []editor.Command
	created  string
	state    editor.State
	saved    domain.Plan
	progress editor.Summary
}

func (s *stubPlanService) CreatePlan(_ context.Context, trainerID, clientID primitive.ObjectID, name string, schema domain.Schema, days int) (*domain.Plan, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = fmt.Sprintf("%s/%s/%d", name, schema, days)
	return &domain.Plan{ID: primitive.NewObjectID(), TrainerID: trainerID, ClientID: clientID, Name: name, Schema: schema, Version: 1}, nil
}

func (s *stubPlanService) GetPlan(_ context.Context, _, _ primitive.ObjectID) (*editor.State, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.state, nil
}

func (s *stubPlanService) ListPlans(_ context.Context, _, _ primitive.ObjectID) ([]domain.Plan, error) {
	return []domain.Plan{s.state.Plan}, s.err
}

func (s *stubPlanService) SavePlan(_ context.Context, _ primitive.ObjectID, plan domain.Plan) (*domain.Plan, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = plan
	plan.Version++
	return &plan, nil
}

func (s *stubPlanService) DeletePlan(_ context.Context, _, _ primitive.ObjectID) error {
	return s.err
}

func (s *stubPlanService) Apply(_ context.Context, _, _ primitive.ObjectID, cmds []editor.Command) (*editor.State, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.applied = cmds
	return &s.state, nil
}

func (s *stubPlanService) Progress(_ context.Context, _, _ primitive.ObjectID) (*editor.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.progress, nil
}

type stubLibraryService struct {
	service.LibraryService
	slot *domain.Slot
	err  error
}

func (s *stubLibraryService) InstantiateTemplate(_ context.Context, _, _ primitive.ObjectID) (*domain.Slot, error) {
	return s.slot, s.err
}

func (s *stubLibraryService) GetTemplatesByTrainer(_ context.Context, trainerID primitive.ObjectID, kind domain.TemplateKind) ([]domain.Template, error) {
	if kind == domain.TemplateMeal {
		return nil, nil
	}
	return []domain.Template{{ID: primitive.NewObjectID(), TrainerID: trainerID, Kind: domain.TemplateExercise, Name: "Squat"}}, s.err
}

func (s *stubLibraryService) CreateTemplate(_ context.Context, trainerID primitive.ObjectID, tpl domain.Template) (*domain.Template, error) {
	if s.err != nil {
		return nil, s.err
	}
	tpl.ID = primitive.NewObjectID()
	tpl.TrainerID = trainerID
	return &tpl, nil
}

type stubMediaService struct{}

func (stubMediaService) ResolveURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", service.ErrMediaKeyRequired
	}
	return "https://signed.test/" + key, nil
}

func newTestRouter(plans service.PlanService, library service.LibraryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, plans, library, stubMediaService{})
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubPlanService{}, &stubLibraryService{}), http.MethodGet, "/ping", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "pong") {
		t.Errorf("ping = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreatePlanHandler(t *testing.T) {
	plans := &stubPlanService{}
	router := newTestRouter(plans, &stubLibraryService{})
	trainer, client := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()
	path := "/api/v1/trainers/" + trainer + "/clients/" + client + "/plans"

	rec := doRequest(t, router, http.MethodPost, path, `{"name":"Cut","schema":"nutrition","days":7}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TrainerID != trainer || resp.ClientID != client || resp.Days == nil {
		t.Errorf("resp = %+v", resp)
	}
	if plans.created != "Cut/nutrition/7" {
		t.Errorf("created = %q", plans.created)
	}

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing name", path, `{"schema":"training"}`, http.StatusBadRequest},
		{"unknown schema", path, `{"name":"x","schema":"yoga"}`, http.StatusBadRequest},
		{"bad trainer id", "/api/v1/trainers/nope/clients/" + client + "/plans", `{"name":"x"}`, http.StatusBadRequest},
		{"bad client id", "/api/v1/trainers/" + trainer + "/clients/nope/plans", `{"name":"x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doRequest(t, router, http.MethodPost, tt.path, tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestApplyCommandsHandler(t *testing.T) {
	plans := &stubPlanService{state: editor.State{Plan: domain.Plan{ID: primitive.NewObjectID(), Name: "Block"}}}
	library := &stubLibraryService{slot: &domain.Slot{Name: "Bench", LibraryID: "tpl"}}
	router := newTestRouter(plans, library)
	path := fmt.Sprintf("/api/v1/trainers/%s/plans/%s/commands", primitive.NewObjectID().Hex(), plans.state.Plan.ID.Hex())

	body := fmt.Sprintf(`{"commands":[
		{"op":"add_slot","day":0,"templateId":%q},
		{"op":"move_slot","day":0,"slot":0,"toDay":1,"to":0},
		{"op":"update_item","day":1,"slot":0,"item":0,"field":"weight","value":82.5}
	]}`, primitive.NewObjectID().Hex())
	rec := doRequest(t, router, http.MethodPost, path, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(plans.applied) != 3 {
		t.Fatalf("applied = %+v", plans.applied)
	}
	if cmd := plans.applied[0]; cmd.Op != editor.OpAddSlot || cmd.NewSlot == nil || cmd.NewSlot.Name != "Bench" {
		t.Errorf("add_slot = %+v", cmd)
	}
	if cmd := plans.applied[1]; cmd != editor.MoveSlotCommand(0, 0, 1, 0) {
		t.Errorf("move_slot = %+v", cmd)
	}
	if cmd := plans.applied[2]; cmd.Field != editor.FieldWeight || cmd.Value != 82.5 {
		t.Errorf("update_item = %+v", cmd)
	}
	var resp PlanStateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Plan.Name != "Block" || resp.Tracking == nil {
		t.Errorf("resp = %+v", resp)
	}

	if rec := doRequest(t, router, http.MethodPost, path, `{"commands":[]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch status = %d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodPost, path, `{"commands":[{"op":"add_slot","templateId":"zzz"}]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad template id status = %d", rec.Code)
	}
}

func TestPlanErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrPlanNotFound, http.StatusNotFound},
		{service.ErrPlanAccessDenied, http.StatusForbidden},
		{service.ErrVersionConflict, http.StatusConflict},
		{service.ErrBatchTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: %w", service.ErrInvalidCommand, editor.ErrIndexOutOfRange), http.StatusUnprocessableEntity},
		{fmt.Errorf("mongo: connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			plans := &stubPlanService{err: tt.err}
			router := newTestRouter(plans, &stubLibraryService{})
			path := fmt.Sprintf("/api/v1/trainers/%s/plans/%s", primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())

			rec := doRequest(t, router, http.MethodPost, path+"/commands", `{"commands":[{"op":"add_day"}]}`)
			if rec.Code != tt.want {
				t.Errorf("apply status = %d, want %d", rec.Code, tt.want)
			}
			rec = doRequest(t, router, http.MethodGet, path+"/progress", "")
			if rec.Code != tt.want {
				t.Errorf("progress status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSavePlanHandler(t *testing.T) {
	plans := &stubPlanService{}
	router := newTestRouter(plans, &stubLibraryService{})
	planID := primitive.NewObjectID()
	path := fmt.Sprintf("/api/v1/trainers/%s/plans/%s", primitive.NewObjectID().Hex(), planID.Hex())

	rec := doRequest(t, router, http.MethodPut, path, `{"name":"Block","version":4,"days":[{"name":"Legs","kind":"active","slots":[]}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if plans.saved.ID != planID || plans.saved.Version != 4 || len(plans.saved.Days) != 1 {
		t.Errorf("saved = %+v", plans.saved)
	}
	if rec := doRequest(t, router, http.MethodPut, path, `{"name":"Block"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing version status = %d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
}

func TestLibraryHandlers(t *testing.T) {
	router := newTestRouter(&stubPlanService{}, &stubLibraryService{})
	base := "/api/v1/trainers/" + primitive.NewObjectID().Hex() + "/library"

	rec := doRequest(t, router, http.MethodPost, base, `{"name":"Lunch","kind":"meal","options":[{"name":"Rice","macros":{"calories":500}}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created TemplateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Kind != "meal" || len(created.Options) != 1 || created.Options[0].Macros.Calories != 500 {
		t.Errorf("created = %+v", created)
	}

	if rec := doRequest(t, router, http.MethodGet, base+"?kind=meal", ""); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("meal list = %d %s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(t, router, http.MethodGet, base+"?kind=cardio", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad kind status = %d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodPost, base, `{"name":"Row","kind":"cardio"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad kind create status = %d", rec.Code)
	}
}

func TestGetMediaURL(t *testing.T) {
	router := newTestRouter(&stubPlanService{}, &stubLibraryService{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/media/url?key=library/squat.jpg", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://signed.test/library/squat.jpg") {
		t.Errorf("media url = %d %s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(t, router, http.MethodGet, "/api/v1/media/url", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing key status = %d", rec.Code)
	}
}
