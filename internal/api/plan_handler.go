package api

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/editor"
	"alcyxob/coach-dashboard/internal/service"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler exposes plans and the editor's commands over HTTP.
type PlanHandler struct {
	planService    service.PlanService
	libraryService service.LibraryService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, libraryService service.LibraryService) *PlanHandler {
	return &PlanHandler{
		planService:    planService,
		libraryService: libraryService,
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreatePlanRequest defines the expected JSON for creating a plan.
type CreatePlanRequest struct {
	Name   string `json:"name" binding:"required"`
	Schema string `json:"schema" binding:"omitempty,oneof=training tracker nutrition"`
	Days   int    `json:"days" binding:"min=0"` // Blank days to start with
}

// SavePlanRequest is a full snapshot of a plan. Version is the version the
// snapshot was loaded at. Schema may be left out; it cannot be changed.
type SavePlanRequest struct {
	Name    string       `json:"name" binding:"required"`
	Schema  string       `json:"schema" binding:"omitempty,oneof=training tracker nutrition"`
	Days    []domain.Day `json:"days"`
	Version int64        `json:"version" binding:"required,min=1"`
}

// CommandRequest is an editor command. templateId may stand in for newSlot
// on add_slot and replace_slot.
type CommandRequest struct {
	editor.Command
	TemplateID string `json:"templateId,omitempty"`
}

// ApplyCommandsRequest carries a batch that applies atomically.
type ApplyCommandsRequest struct {
	Commands []CommandRequest `json:"commands" binding:"required,min=1"`
}

// PlanResponse is the DTO for returning a plan.
type PlanResponse struct {
	ID        string       `json:"id"`
	TrainerID string       `json:"trainerId"`
	ClientID  string       `json:"clientId"`
	Schema    string       `json:"schema"`
	Name      string       `json:"name"`
	Days      []domain.Day `json:"days"`
	Version   int64        `json:"version"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// PlanStateResponse is a plan together with what the client logged.
type PlanStateResponse struct {
	Plan     PlanResponse    `json:"plan"`
	Tracking domain.Tracking `json:"tracking"`
}

// MapPlanToResponse converts a domain.Plan to PlanResponse DTO.
func MapPlanToResponse(p *domain.Plan) PlanResponse {
	if p == nil {
		return PlanResponse{}
	}
	days := p.Days
	if days == nil {
		days = []domain.Day{}
	}
	return PlanResponse{
		ID:        p.ID.Hex(),
		TrainerID: p.TrainerID.Hex(),
		ClientID:  p.ClientID.Hex(),
		Schema:    string(p.Schema),
		Name:      p.Name,
		Days:      days,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// MapPlansToResponse converts a slice of domain.Plan to a slice of PlanResponse DTO.
func MapPlansToResponse(plans []domain.Plan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	return responses
}

// MapStateToResponse converts an editor.State to PlanStateResponse DTO.
func MapStateToResponse(s *editor.State) PlanStateResponse {
	tracking := s.Tracking
	if tracking == nil {
		tracking = domain.Tracking{}
	}
	return PlanStateResponse{Plan: MapPlanToResponse(&s.Plan), Tracking: tracking}
}

// abortWithPlanError maps service errors to HTTP status codes.
func abortWithPlanError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied), errors.Is(err, service.ErrTemplateAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrVersionConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBatchTooLarge):
		abortWithError(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrInvalidPlan), errors.Is(err, service.ErrInvalidCommand):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("ERROR: Failed to %s: %v", action, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to "+action+".")
	}
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a plan for a client
// @Tags Plans
// @Accept json
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param clientId path string true "Client ID"
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 422 {object} gin.H "Plan rejected"
// @Router /trainers/{trainerId}/clients/{clientId}/plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), trainerID, clientID, req.Name, domain.Schema(req.Schema), req.Days)
	if err != nil {
		abortWithPlanError(c, err, "create plan")
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// GetPlansForClient godoc
// @Summary List a client's plans
// @Tags Plans
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param clientId path string true "Client ID"
// @Success 200 {array} PlanResponse
// @Router /trainers/{trainerId}/clients/{clientId}/plans [get]
func (h *PlanHandler) GetPlansForClient(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), trainerID, clientID)
	if err != nil {
		abortWithPlanError(c, err, "retrieve plans")
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// GetPlan godoc
// @Summary Get a plan and its tracking
// @Tags Plans
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param planId path string true "Plan ID"
// @Success 200 {object} PlanStateResponse
// @Failure 403 {object} gin.H "Plan belongs to another trainer"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /trainers/{trainerId}/plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	state, err := h.planService.GetPlan(c.Request.Context(), trainerID, planID)
	if err != nil {
		abortWithPlanError(c, err, "retrieve plan")
		return
	}
	c.JSON(http.StatusOK, MapStateToResponse(state))
}

// SavePlan godoc
// @Summary Replace a plan with a full snapshot
// @Description Fails with 409 when the plan changed since the snapshot's version.
// @Tags Plans
// @Accept json
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param planId path string true "Plan ID"
// @Param plan body SavePlanRequest true "Plan snapshot"
// @Success 200 {object} PlanResponse
// @Failure 409 {object} gin.H "Version conflict"
// @Router /trainers/{trainerId}/plans/{planId} [put]
func (h *PlanHandler) SavePlan(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.SavePlan(c.Request.Context(), trainerID, domain.Plan{
		ID:      planID,
		Schema:  domain.Schema(req.Schema),
		Name:    req.Name,
		Days:    req.Days,
		Version: req.Version,
	})
	if err != nil {
		abortWithPlanError(c, err, "save plan")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a plan and its logs
// @Tags Plans
// @Param trainerId path string true "Trainer ID"
// @Param planId path string true "Plan ID"
// @Success 204
// @Router /trainers/{trainerId}/plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), trainerID, planID); err != nil {
		abortWithPlanError(c, err, "delete plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyCommands godoc
// @Summary Apply editor commands to a plan
// @Description Commands run in order; if one fails none is stored.
// @Tags Plans
// @Accept json
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param planId path string true "Plan ID"
// @Param commands body ApplyCommandsRequest true "Command batch"
// @Success 200 {object} PlanStateResponse
// @Failure 413 {object} gin.H "Batch too large"
// @Failure 422 {object} gin.H "Command rejected"
// @Router /trainers/{trainerId}/plans/{planId}/commands [post]
func (h *PlanHandler) ApplyCommands(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}
	var req ApplyCommandsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmds := make([]editor.Command, len(req.Commands))
	for i, cr := range req.Commands {
		cmd := cr.Command
		if cr.TemplateID != "" {
			templateID, err := primitive.ObjectIDFromHex(cr.TemplateID)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, "Invalid templateId format.")
				return
			}
			slot, err := h.libraryService.InstantiateTemplate(c.Request.Context(), trainerID, templateID)
			if err != nil {
				abortWithPlanError(c, err, "load library template")
				return
			}
			cmd.NewSlot = slot
		}
		cmds[i] = cmd
	}

	state, err := h.planService.Apply(c.Request.Context(), trainerID, planID, cmds)
	if err != nil {
		abortWithPlanError(c, err, "apply commands")
		return
	}
	c.JSON(http.StatusOK, MapStateToResponse(state))
}

// GetProgress godoc
// @Summary Completion summary of a plan
// @Tags Plans
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param planId path string true "Plan ID"
// @Success 200 {object} editor.Summary
// @Router /trainers/{trainerId}/plans/{planId}/progress [get]
func (h *PlanHandler) GetProgress(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	summary, err := h.planService.Progress(c.Request.Context(), trainerID, planID)
	if err != nil {
		abortWithPlanError(c, err, "compute progress")
		return
	}
	c.JSON(http.StatusOK, summary)
}
