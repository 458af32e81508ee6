package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultExerciseSets      = 3
	defaultExerciseIncrement = 2.5

	directionIncrement = 1
	directionDecrement = -1
)

// ExerciseService 负责训练日中的动作，以及加减重量时同步写入台账
type ExerciseService struct {
	db      *gorm.DB
	owners  *OwnershipResolver
	metrics *metrics.Manager
	now     func() time.Time
}

// ExerciseInput 定义创建动作时可配置字段；指针字段为空时从模板或默认值补齐
type ExerciseInput struct {
	TrainingDayID uint
	TemplateID    *uint
	Name          string
	Sets          int
	RepsMin       int
	RepsMax       int
	Weight        *float64
	Increment     *float64
	Order         *int
}

// ExercisePatch 描述手动编辑，只更新非空字段
type ExercisePatch struct {
	Name          *string
	Sets          *int
	RepsMin       *int
	RepsMax       *int
	Weight        *float64
	Increment     *float64
	Order         *int
	TemplateID    *uint
	ClearTemplate bool
}

// NewExerciseService 构造 ExerciseService
func NewExerciseService(gdb *gorm.DB, owners *OwnershipResolver, m *metrics.Manager) *ExerciseService {
	return &ExerciseService{db: gdb, owners: owners, metrics: m, now: time.Now}
}

// WithClock 允许在测试中固定台账时间。
func (s *ExerciseService) WithClock(now func() time.Time) *ExerciseService {
	if now != nil {
		s.now = now
	}
	return s
}

// Get 返回属于用户的动作
func (s *ExerciseService) Get(ctx context.Context, userID, id uint) (*db.Exercise, error) {
	tx := s.db.WithContext(ctx)
	if err := s.owners.Authorize(tx, userID, KindExercise, id); err != nil {
		return nil, err
	}

	var exercise db.Exercise
	if err := tx.First(&exercise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return &exercise, nil
}

// Create 新建动作，并在同一事务内写入初始重量快照
func (s *ExerciseService) Create(ctx context.Context, userID uint, input ExerciseInput) (*db.Exercise, error) {
	var exercise db.Exercise

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindDay, input.TrainingDayID); err != nil {
			return err
		}

		var template *db.ExerciseTemplate
		if input.TemplateID != nil {
			if err := s.owners.Authorize(tx, userID, KindTemplate, *input.TemplateID); err != nil {
				return err
			}
			template = &db.ExerciseTemplate{}
			if err := tx.First(template, *input.TemplateID).Error; err != nil {
				return fmt.Errorf("load template: %w", err)
			}
		}

		built, err := buildExercise(input, template)
		if err != nil {
			return err
		}

		if input.Order == nil {
			var count int64
			if err := tx.Model(&db.Exercise{}).Where("training_day_id = ?", input.TrainingDayID).Count(&count).Error; err != nil {
				return fmt.Errorf("count day exercises: %w", err)
			}
			built.Order = int(count)
		}

		if err := tx.Create(&built).Error; err != nil {
			return fmt.Errorf("create exercise: %w", err)
		}
		if _, err := appendWeightEntry(tx, built.ID, built.Weight, s.now()); err != nil {
			return err
		}

		exercise = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Update 手动编辑动作；不写台账，台账只记录创建与加减重量
func (s *ExerciseService) Update(ctx context.Context, userID, id uint, patch ExercisePatch) (*db.Exercise, error) {
	var exercise db.Exercise

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindExercise, id); err != nil {
			return err
		}
		if err := tx.First(&exercise, id).Error; err != nil {
			return fmt.Errorf("find exercise: %w", err)
		}

		if patch.TemplateID != nil {
			if err := s.owners.Authorize(tx, userID, KindTemplate, *patch.TemplateID); err != nil {
				return err
			}
		}

		applyExercisePatch(&exercise, patch)
		if err := validateExercise(exercise); err != nil {
			return err
		}

		if err := tx.Save(&exercise).Error; err != nil {
			return fmt.Errorf("update exercise: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Increment 按步长加重，并追加台账
func (s *ExerciseService) Increment(ctx context.Context, userID, id uint) (*db.Exercise, error) {
	return s.adjustWeight(ctx, userID, id, directionIncrement)
}

// Decrement 按步长减重，最低为 0，并追加台账
func (s *ExerciseService) Decrement(ctx context.Context, userID, id uint) (*db.Exercise, error) {
	return s.adjustWeight(ctx, userID, id, directionDecrement)
}

// adjustWeight 在一个事务内完成 读取→计算→写回→追加台账。
// 并发加减同一动作时重量以最后一次写入为准，但每次操作的台账记录都会保留。
func (s *ExerciseService) adjustWeight(ctx context.Context, userID, id uint, direction int) (*db.Exercise, error) {
	var exercise db.Exercise

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindExercise, id); err != nil {
			return err
		}
		if err := tx.First(&exercise, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find exercise: %w", err)
		}

		next := StepWeight(exercise.Weight, exercise.Increment, direction)
		if err := tx.Model(&db.Exercise{}).Where("id = ?", id).Update("weight", next).Error; err != nil {
			return fmt.Errorf("update weight: %w", err)
		}
		exercise.Weight = next

		if _, err := appendWeightEntry(tx, id, next, s.now()); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	label := "increment"
	if direction == directionDecrement {
		label = "decrement"
	}
	s.metrics.ObserveWeightChange(label)
	logrus.WithFields(logrus.Fields{
		"exercise_id": id,
		"user_id":     userID,
		"weight":      exercise.Weight,
	}).Debugf("exercise weight %s", label)

	return &exercise, nil
}

// Delete 删除动作及其台账与训练日志
func (s *ExerciseService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindExercise, id); err != nil {
			return err
		}
		return deleteExercisesCascade(tx, []uint{id})
	})
}

// StepWeight 计算加减一次步长后的重量：保留两位小数，不低于 0
func StepWeight(current, increment float64, direction int) float64 {
	next := math.Round((current+float64(direction)*increment)*100) / 100
	if next < 0 {
		return 0
	}
	return next
}

func buildExercise(input ExerciseInput, template *db.ExerciseTemplate) (db.Exercise, error) {
	exercise := db.Exercise{
		TrainingDayID: input.TrainingDayID,
		Name:          strings.TrimSpace(input.Name),
		Sets:          input.Sets,
		RepsMin:       input.RepsMin,
		RepsMax:       input.RepsMax,
		Increment:     defaultExerciseIncrement,
	}

	if template != nil {
		id := template.ID
		exercise.ExerciseTemplateID = &id
		if exercise.Name == "" {
			exercise.Name = template.Name
		}
		if exercise.Sets == 0 {
			exercise.Sets = template.DefaultSets
		}
		if exercise.RepsMin == 0 && exercise.RepsMax == 0 {
			exercise.RepsMin = template.DefaultRepsMin
			exercise.RepsMax = template.DefaultRepsMax
		}
		exercise.Weight = template.DefaultWeight
		if template.DefaultIncrement > 0 {
			exercise.Increment = template.DefaultIncrement
		}
	}

	if exercise.Sets == 0 {
		exercise.Sets = defaultExerciseSets
	}
	if input.Weight != nil {
		exercise.Weight = *input.Weight
	}
	if input.Increment != nil {
		exercise.Increment = *input.Increment
	}
	if input.Order != nil {
		exercise.Order = *input.Order
	}

	if err := validateExercise(exercise); err != nil {
		return db.Exercise{}, err
	}
	return exercise, nil
}

func applyExercisePatch(exercise *db.Exercise, patch ExercisePatch) {
	if patch.Name != nil {
		exercise.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Sets != nil {
		exercise.Sets = *patch.Sets
	}
	if patch.RepsMin != nil {
		exercise.RepsMin = *patch.RepsMin
	}
	if patch.RepsMax != nil {
		exercise.RepsMax = *patch.RepsMax
	}
	if patch.Weight != nil {
		exercise.Weight = *patch.Weight
	}
	if patch.Increment != nil {
		exercise.Increment = *patch.Increment
	}
	if patch.Order != nil {
		exercise.Order = *patch.Order
	}
	if patch.ClearTemplate {
		exercise.ExerciseTemplateID = nil
	} else if patch.TemplateID != nil {
		id := *patch.TemplateID
		exercise.ExerciseTemplateID = &id
	}
}

func validateExercise(exercise db.Exercise) error {
	if exercise.Name == "" {
		return fmt.Errorf("%w: exercise name is required", ErrValidation)
	}
	if exercise.Sets <= 0 {
		return fmt.Errorf("%w: sets must be positive", ErrValidation)
	}
	if exercise.RepsMin < 0 || exercise.RepsMax < 0 {
		return fmt.Errorf("%w: reps must not be negative", ErrValidation)
	}
	if exercise.RepsMax > 0 && exercise.RepsMin > exercise.RepsMax {
		return fmt.Errorf("%w: reps min exceeds max", ErrValidation)
	}
	if exercise.Weight < 0 || math.IsNaN(exercise.Weight) || math.IsInf(exercise.Weight, 0) {
		return fmt.Errorf("%w: weight must not be negative", ErrValidation)
	}
	if exercise.Increment < 0 || math.IsNaN(exercise.Increment) || math.IsInf(exercise.Increment, 0) {
		return fmt.Errorf("%w: increment must not be negative", ErrValidation)
	}
	return nil
}
