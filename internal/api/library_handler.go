package api

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LibraryHandler holds the library service dependency.
type LibraryHandler struct {
	libraryService service.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(libraryService service.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// --- DTOs for API (Data Transfer Objects) ---

// TemplateRequest defines the expected JSON for creating or updating a
// library template.
type TemplateRequest struct {
	Kind        string        `json:"kind" binding:"omitempty,oneof=exercise meal"`
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	MuscleGroup string        `json:"muscleGroup"` // e.g., "Chest", "Legs"
	Difficulty  string        `json:"difficulty"`  // e.g., "Novice", "Medium", "Advanced"
	Sets        int           `json:"sets" binding:"min=0"`
	Reps        string        `json:"reps"`
	Rest        string        `json:"rest"`
	Time        string        `json:"time"`
	ImageURL    string        `json:"imageUrl"` // Storage key or absolute URL
	VideoURL    string        `json:"videoUrl"`
	Options     []domain.Item `json:"options"`
}

func (r TemplateRequest) toDomain() domain.Template {
	return domain.Template{
		Kind:        domain.TemplateKind(r.Kind),
		Name:        r.Name,
		Description: r.Description,
		MuscleGroup: r.MuscleGroup,
		Difficulty:  r.Difficulty,
		Sets:        r.Sets,
		Reps:        r.Reps,
		Rest:        r.Rest,
		Time:        r.Time,
		ImageURL:    r.ImageURL,
		VideoURL:    r.VideoURL,
		Options:     r.Options,
	}
}

// TemplateResponse is the DTO for returning template details.
type TemplateResponse struct {
	ID          string        `json:"id"`
	TrainerID   string        `json:"trainerId"`
	Kind        string        `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	MuscleGroup string        `json:"muscleGroup,omitempty"`
	Difficulty  string        `json:"difficulty,omitempty"`
	Sets        int           `json:"sets,omitempty"`
	Reps        string        `json:"reps,omitempty"`
	Rest        string        `json:"rest,omitempty"`
	Time        string        `json:"time,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	VideoURL    string        `json:"videoUrl,omitempty"`
	Options     []domain.Item `json:"options,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// MapTemplateToResponse converts a domain.Template to TemplateResponse DTO.
func MapTemplateToResponse(t *domain.Template) TemplateResponse {
	if t == nil {
		return TemplateResponse{}
	}
	return TemplateResponse{
		ID:          t.ID.Hex(),
		TrainerID:   t.TrainerID.Hex(),
		Kind:        string(t.Kind),
		Name:        t.Name,
		Description: t.Description,
		MuscleGroup: t.MuscleGroup,
		Difficulty:  t.Difficulty,
		Sets:        t.Sets,
		Reps:        t.Reps,
		Rest:        t.Rest,
		Time:        t.Time,
		ImageURL:    t.ImageURL,
		VideoURL:    t.VideoURL,
		Options:     t.Options,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// MapTemplatesToResponse converts a slice of domain.Template to a slice of TemplateResponse DTO.
func MapTemplatesToResponse(templates []domain.Template) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	return responses
}

func abortWithLibraryError(c *gin.Context, err error, action string) {
	if errors.Is(err, service.ErrValidationFailed) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	abortWithPlanError(c, err, action)
}

// --- Handler Methods ---

// CreateTemplate godoc
// @Summary Add an exercise or meal to the trainer's library
// @Tags Library
// @Accept json
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param template body TemplateRequest true "Template details"
// @Success 201 {object} TemplateResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /trainers/{trainerId}/library [post]
func (h *LibraryHandler) CreateTemplate(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	tpl, err := h.libraryService.CreateTemplate(c.Request.Context(), trainerID, req.toDomain())
	if err != nil {
		abortWithLibraryError(c, err, "create template")
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(tpl))
}

// GetTemplates godoc
// @Summary List the trainer's library
// @Tags Library
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param kind query string false "exercise or meal"
// @Success 200 {array} TemplateResponse
// @Router /trainers/{trainerId}/library [get]
func (h *LibraryHandler) GetTemplates(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	kind := domain.TemplateKind(c.Query("kind"))
	switch kind {
	case "", domain.TemplateExercise, domain.TemplateMeal:
	default:
		abortWithError(c, http.StatusBadRequest, "kind must be exercise or meal")
		return
	}

	templates, err := h.libraryService.GetTemplatesByTrainer(c.Request.Context(), trainerID, kind)
	if err != nil {
		abortWithLibraryError(c, err, "retrieve library")
		return
	}
	if templates == nil {
		c.JSON(http.StatusOK, []TemplateResponse{}) // Return empty array
		return
	}
	c.JSON(http.StatusOK, MapTemplatesToResponse(templates))
}

// UpdateTemplate godoc
// @Summary Update a library template
// @Tags Library
// @Accept json
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param templateId path string true "Template ID"
// @Param template body TemplateRequest true "Template details"
// @Success 200 {object} TemplateResponse
// @Failure 403 {object} gin.H "Template belongs to another trainer"
// @Failure 404 {object} gin.H "Template not found"
// @Router /trainers/{trainerId}/library/{templateId} [put]
func (h *LibraryHandler) UpdateTemplate(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "templateId")
	if !ok {
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	tpl, err := h.libraryService.UpdateTemplate(c.Request.Context(), trainerID, templateID, req.toDomain())
	if err != nil {
		abortWithLibraryError(c, err, "update template")
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(tpl))
}

// DeleteTemplate godoc
// @Summary Remove a template from the library
// @Description Plans built from the template keep their copies.
// @Tags Library
// @Param trainerId path string true "Trainer ID"
// @Param templateId path string true "Template ID"
// @Success 204
// @Router /trainers/{trainerId}/library/{templateId} [delete]
func (h *LibraryHandler) DeleteTemplate(c *gin.Context) {
	trainerID, ok := trainerFromContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "templateId")
	if !ok {
		return
	}

	if err := h.libraryService.DeleteTemplate(c.Request.Context(), trainerID, templateID); err != nil {
		abortWithLibraryError(c, err, "delete template")
		return
	}
	c.Status(http.StatusNoContent)
}
