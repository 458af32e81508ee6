package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liftlog/internal/db"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PlanService 管理训练计划与训练日（含独立训练日）
type PlanService struct {
	db     *gorm.DB
	owners *OwnershipResolver
}

// NewPlanService 构造 PlanService
func NewPlanService(gdb *gorm.DB, owners *OwnershipResolver) *PlanService {
	return &PlanService{db: gdb, owners: owners}
}

func orderedExercises(q *gorm.DB) *gorm.DB {
	return q.Order("sort_order asc").Order("id asc")
}

// ListPlans 返回用户的计划，训练日按 ID、动作按排序字段嵌套加载
func (s *PlanService) ListPlans(ctx context.Context, userID uint) ([]db.TrainingPlan, error) {
	var plans []db.TrainingPlan
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Days", func(q *gorm.DB) *gorm.DB { return q.Order("id asc") }).
		Preload("Days.Exercises", orderedExercises).
		Order("id asc").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list training plans: %w", err)
	}
	return plans, nil
}

// CreatePlan 新建计划，dayNames 非空时同时创建训练日
func (s *PlanService) CreatePlan(ctx context.Context, userID uint, name string, dayNames []string) (*db.TrainingPlan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidation)
	}

	plan := db.TrainingPlan{UserID: userID, Name: name}
	for _, dayName := range dayNames {
		dayName = strings.TrimSpace(dayName)
		if dayName == "" {
			return nil, fmt.Errorf("%w: day name is required", ErrValidation)
		}
		plan.Days = append(plan.Days, db.TrainingDay{UserID: userID, Name: dayName})
	}

	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("create training plan: %w", err)
	}
	return &plan, nil
}

// DeletePlan 删除计划及其训练日、动作、台账与训练日志
func (s *PlanService) DeletePlan(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindPlan, id); err != nil {
			return err
		}

		var dayIDs []uint
		if err := tx.Model(&db.TrainingDay{}).Where("plan_id = ?", id).Pluck("id", &dayIDs).Error; err != nil {
			return fmt.Errorf("list plan days: %w", err)
		}
		if err := deleteDaysCascade(tx, dayIDs); err != nil {
			return err
		}
		if err := tx.Delete(&db.TrainingPlan{}, id).Error; err != nil {
			return fmt.Errorf("delete training plan: %w", err)
		}

		logrus.WithFields(logrus.Fields{"plan_id": id, "user_id": userID, "days": len(dayIDs)}).Debug("training plan deleted")
		return nil
	})
}

// ListDays 返回用户的训练日；includePlanDays 为 false 时只返回独立训练日
func (s *PlanService) ListDays(ctx context.Context, userID uint, includePlanDays bool) ([]db.TrainingDay, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includePlanDays {
		query = query.Where("plan_id IS NULL")
	}

	var days []db.TrainingDay
	if err := query.
		Preload("Exercises", orderedExercises).
		Order("id asc").
		Find(&days).Error; err != nil {
		return nil, fmt.Errorf("list training days: %w", err)
	}
	return days, nil
}

// GetDay 返回属于用户的训练日及其动作
func (s *PlanService) GetDay(ctx context.Context, userID, id uint) (*db.TrainingDay, error) {
	var day db.TrainingDay
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Exercises", orderedExercises).
		First(&day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get training day: %w", err)
	}
	return &day, nil
}

// CreateDay 新建训练日；planID 为空时创建独立训练日
func (s *PlanService) CreateDay(ctx context.Context, userID uint, planID *uint, name string) (*db.TrainingDay, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: day name is required", ErrValidation)
	}

	day := db.TrainingDay{UserID: userID, PlanID: planID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if planID != nil {
			if err := s.owners.Authorize(tx, userID, KindPlan, *planID); err != nil {
				return err
			}
		}
		if err := tx.Create(&day).Error; err != nil {
			return fmt.Errorf("create training day: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// RenameDay 修改训练日名称
func (s *PlanService) RenameDay(ctx context.Context, userID, id uint, name string) (*db.TrainingDay, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: day name is required", ErrValidation)
	}

	var day db.TrainingDay
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindDay, id); err != nil {
			return err
		}
		if err := tx.Model(&db.TrainingDay{}).Where("id = ?", id).Update("name", name).Error; err != nil {
			return fmt.Errorf("rename training day: %w", err)
		}
		if err := tx.First(&day, id).Error; err != nil {
			return fmt.Errorf("reload training day: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// DeleteDay 删除训练日及其动作、台账与训练日志
func (s *PlanService) DeleteDay(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindDay, id); err != nil {
			return err
		}
		return deleteDaysCascade(tx, []uint{id})
	})
}
