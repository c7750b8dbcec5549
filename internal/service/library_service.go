package service

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/repository"
	"alcyxob/coach-dashboard/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound     = errors.New("library template not found")
	ErrTemplateAccessDenied = errors.New("access denied to modify or delete this template")
	ErrValidationFailed     = errors.New("template validation failed")
)

// LibraryService manages a trainer's reusable exercises and meals.
type LibraryService interface {
	CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, tpl domain.Template) (*domain.Template, error)
	GetTemplatesByTrainer(ctx context.Context, trainerID primitive.ObjectID, kind domain.TemplateKind) ([]domain.Template, error)
	UpdateTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, tpl domain.Template) (*domain.Template, error)
	DeleteTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error
	// InstantiateTemplate builds a slot from a template, ready for an
	// add_slot or replace_slot command.
	InstantiateTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) (*domain.Slot, error)
}

// libraryService implements the LibraryService interface.
type libraryService struct {
	templateRepo repository.TemplateRepository
	fileStorage  storage.FileStorage
}

// NewLibraryService creates a new instance of libraryService.
func NewLibraryService(templateRepo repository.TemplateRepository, fileStorage storage.FileStorage) LibraryService {
	return &libraryService{
		templateRepo: templateRepo,
		fileStorage:  fileStorage,
	}
}

func validateTemplate(tpl domain.Template) error {
	if tpl.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	switch tpl.Kind {
	case domain.TemplateExercise:
		if len(tpl.Options) > 0 {
			return fmt.Errorf("%w: exercises have no meal options", ErrValidationFailed)
		}
	case domain.TemplateMeal:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrValidationFailed, tpl.Kind)
	}
	if tpl.Sets < 0 {
		return fmt.Errorf("%w: sets cannot be negative", ErrValidationFailed)
	}
	return nil
}

// CreateTemplate adds a template to the trainer's library.
func (s *libraryService) CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, tpl domain.Template) (*domain.Template, error) {
	if tpl.Kind == "" {
		tpl.Kind = domain.TemplateExercise
	}
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required to create a template")
	}
	tpl.TrainerID = trainerID

	templateID, err := s.templateRepo.Create(ctx, &tpl)
	if err != nil {
		return nil, err
	}
	// Fetch again to get the stored timestamps.
	return s.templateRepo.GetByID(ctx, templateID)
}

// GetTemplatesByTrainer lists a trainer's templates; an empty kind lists all.
func (s *libraryService) GetTemplatesByTrainer(ctx context.Context, trainerID primitive.ObjectID, kind domain.TemplateKind) ([]domain.Template, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	return s.templateRepo.GetByTrainerID(ctx, trainerID, kind)
}

// UpdateTemplate overwrites an owned template. Media objects the template
// no longer references are removed from storage.
func (s *libraryService) UpdateTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, tpl domain.Template) (*domain.Template, error) {
	existing, err := s.getOwned(ctx, trainerID, templateID)
	if err != nil {
		return nil, err
	}
	if tpl.Kind == "" {
		tpl.Kind = existing.Kind
	}
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}

	tpl.ID = existing.ID
	tpl.TrainerID = existing.TrainerID
	tpl.CreatedAt = existing.CreatedAt
	if err := s.templateRepo.Update(ctx, &tpl); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	kept := mediaKeys(&tpl)
	for _, key := range mediaKeys(existing) {
		if !slices.Contains(kept, key) {
			s.deleteMedia(ctx, key)
		}
	}
	return &tpl, nil
}

// DeleteTemplate removes an owned template and the media it stored.
// Plans that were built from it keep their own copies.
func (s *libraryService) DeleteTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error {
	existing, err := s.getOwned(ctx, trainerID, templateID)
	if err != nil {
		return err
	}
	if err := s.templateRepo.Delete(ctx, templateID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	for _, key := range mediaKeys(existing) {
		s.deleteMedia(ctx, key)
	}
	return nil
}

// InstantiateTemplate copies the template's defaults into a new slot.
// The slot has no ID yet; the editor assigns one when it is added.
func (s *libraryService) InstantiateTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) (*domain.Slot, error) {
	tpl, err := s.getOwned(ctx, trainerID, templateID)
	if err != nil {
		return nil, err
	}

	slot := &domain.Slot{
		Name:      tpl.Name,
		LibraryID: tpl.ID.Hex(),
		Sets:      tpl.Sets,
		Reps:      tpl.Reps,
		Rest:      tpl.Rest,
		Time:      tpl.Time,
		ImageURL:  tpl.ImageURL,
		VideoURL:  tpl.VideoURL,
	}
	switch tpl.Kind {
	case domain.TemplateMeal:
		for _, opt := range tpl.Options {
			opt.ID = ""
			if opt.Macros != nil {
				m := *opt.Macros
				opt.Macros = &m
			}
			opt.Media = slices.Clone(opt.Media)
			slot.Items = append(slot.Items, opt)
		}
	default:
		// One item per prescribed set.
		for i := 0; i < tpl.Sets; i++ {
			slot.Items = append(slot.Items, domain.Item{})
		}
	}
	return slot, nil
}

func (s *libraryService) getOwned(ctx context.Context, trainerID, templateID primitive.ObjectID) (*domain.Template, error) {
	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if tpl.TrainerID != trainerID {
		return nil, ErrTemplateAccessDenied
	}
	return tpl, nil
}

// deleteMedia is best effort: a leftover object costs storage, a failed
// request must not fail the library change that already happened.
func (s *libraryService) deleteMedia(ctx context.Context, key string) {
	if s.fileStorage == nil {
		return
	}
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		log.Printf("WARN: Failed to delete media object %q: %v", key, err)
	}
}

// mediaKeys lists the storage keys a template owns. Absolute URLs point
// elsewhere and are never ours to delete.
func mediaKeys(tpl *domain.Template) []string {
	var keys []string
	add := func(v string) {
		if v != "" && !isAbsoluteURL(v) && !slices.Contains(keys, v) {
			keys = append(keys, v)
		}
	}
	add(tpl.ImageURL)
	add(tpl.VideoURL)
	for _, opt := range tpl.Options {
		for _, m := range opt.Media {
			add(m)
		}
	}
	return keys
}
