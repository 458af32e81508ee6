package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/liftlog/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	descriptionSanitizer = bluemonday.UGCPolicy()
)

// TemplateService manages the user's exercise template library.
type TemplateService struct {
	db     *gorm.DB
	owners *OwnershipResolver
}

// TemplateInput 定义创建模板时的字段
type TemplateInput struct {
	Name             string
	Category         string
	Description      string
	DefaultSets      int
	DefaultRepsMin   int
	DefaultRepsMax   int
	DefaultWeight    float64
	DefaultIncrement float64
}

// NewTemplateService creates a TemplateService instance.
func NewTemplateService(gdb *gorm.DB, owners *OwnershipResolver) *TemplateService {
	return &TemplateService{db: gdb, owners: owners}
}

// List returns the user's templates ordered by name.
func (s *TemplateService) List(ctx context.Context, userID uint) ([]db.ExerciseTemplate, error) {
	var templates []db.ExerciseTemplate
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Order("id asc").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// Get returns a template owned by the user.
func (s *TemplateService) Get(ctx context.Context, userID, id uint) (*db.ExerciseTemplate, error) {
	var template db.ExerciseTemplate
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &template, nil
}

// Create inserts a new template for the user.
func (s *TemplateService) Create(ctx context.Context, userID uint, input TemplateInput) (*db.ExerciseTemplate, error) {
	template := db.ExerciseTemplate{
		UserID:           userID,
		Name:             strings.TrimSpace(input.Name),
		Category:         strings.TrimSpace(input.Category),
		Description:      strings.TrimSpace(input.Description),
		DefaultSets:      input.DefaultSets,
		DefaultRepsMin:   input.DefaultRepsMin,
		DefaultRepsMax:   input.DefaultRepsMax,
		DefaultWeight:    input.DefaultWeight,
		DefaultIncrement: input.DefaultIncrement,
	}
	if template.DefaultSets == 0 {
		template.DefaultSets = defaultExerciseSets
	}
	if template.DefaultIncrement == 0 {
		template.DefaultIncrement = defaultExerciseIncrement
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&template).Error; err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return &template, nil
}

// Delete 删除模板；引用它的动作保留，只解除该用户自己动作上的引用
func (s *TemplateService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindTemplate, id); err != nil {
			return err
		}

		ownDays := tx.Model(&db.TrainingDay{}).Select("id").Where("user_id = ?", userID)
		result := tx.Model(&db.Exercise{}).
			Where("exercise_template_id = ? AND training_day_id IN (?)", id, ownDays).
			Update("exercise_template_id", nil)
		if result.Error != nil {
			return fmt.Errorf("detach template exercises: %w", result.Error)
		}

		if err := tx.Delete(&db.ExerciseTemplate{}, id).Error; err != nil {
			return fmt.Errorf("delete template: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"template_id": id,
			"user_id":     userID,
			"detached":    result.RowsAffected,
		}).Debug("template deleted")
		return nil
	})
}

// RenderDescription 将模板说明的 Markdown 渲染为经过清洗的 HTML
func RenderDescription(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return descriptionSanitizer.Sanitize(buf.String()), nil
}

func validateTemplate(template db.ExerciseTemplate) error {
	if template.Name == "" {
		return fmt.Errorf("%w: template name is required", ErrValidation)
	}
	if template.DefaultSets < 0 {
		return fmt.Errorf("%w: default sets must not be negative", ErrValidation)
	}
	if template.DefaultRepsMin < 0 || template.DefaultRepsMax < 0 {
		return fmt.Errorf("%w: default reps must not be negative", ErrValidation)
	}
	if template.DefaultRepsMax > 0 && template.DefaultRepsMin > template.DefaultRepsMax {
		return fmt.Errorf("%w: default reps min exceeds max", ErrValidation)
	}
	for _, v := range []float64{template.DefaultWeight, template.DefaultIncrement} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: default weight and increment must not be negative", ErrValidation)
		}
	}
	return nil
}
