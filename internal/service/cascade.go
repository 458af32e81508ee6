package service

import (
	"fmt"

	"github.com/liftlog/internal/db"
	"gorm.io/gorm"
)

// deleteExercisesCascade 删除动作及其台账、训练日志
func deleteExercisesCascade(tx *gorm.DB, exerciseIDs []uint) error {
	if len(exerciseIDs) == 0 {
		return nil
	}
	if err := tx.Where("exercise_id IN ?", exerciseIDs).Delete(&db.WorkoutLog{}).Error; err != nil {
		return fmt.Errorf("delete workout logs: %w", err)
	}
	if err := tx.Where("exercise_id IN ?", exerciseIDs).Delete(&db.WeightHistory{}).Error; err != nil {
		return fmt.Errorf("delete weight history: %w", err)
	}
	if err := tx.Where("id IN ?", exerciseIDs).Delete(&db.Exercise{}).Error; err != nil {
		return fmt.Errorf("delete exercises: %w", err)
	}
	return nil
}

// deleteDaysCascade 删除训练日及其下全部动作
func deleteDaysCascade(tx *gorm.DB, dayIDs []uint) error {
	if len(dayIDs) == 0 {
		return nil
	}

	var exerciseIDs []uint
	if err := tx.Model(&db.Exercise{}).Where("training_day_id IN ?", dayIDs).Pluck("id", &exerciseIDs).Error; err != nil {
		return fmt.Errorf("list day exercises: %w", err)
	}
	if err := deleteExercisesCascade(tx, exerciseIDs); err != nil {
		return err
	}
	if err := tx.Where("id IN ?", dayIDs).Delete(&db.TrainingDay{}).Error; err != nil {
		return fmt.Errorf("delete training days: %w", err)
	}
	return nil
}
