package service

import (
	"context"
	"fmt"
	"time"

	"github.com/liftlog/internal/db"
	"gorm.io/gorm"
)

// TrainingStatusService 计算每个计划最近训练的训练日，并按轮换推荐下一次训练
type TrainingStatusService struct {
	db *gorm.DB
}

// NewTrainingStatusService 构造 TrainingStatusService
func NewTrainingStatusService(gdb *gorm.DB) *TrainingStatusService {
	return &TrainingStatusService{db: gdb}
}

// Status 只考虑计划内的训练日，独立训练日不参与轮换。没有任何数据时返回空 map 与 nil 推荐。
func (s *TrainingStatusService) Status(ctx context.Context, userID uint) (*TrainingStatus, error) {
	tx := s.db.WithContext(ctx)

	var plans []db.TrainingPlan
	if err := tx.Where("user_id = ?", userID).
		Order("id ASC").
		Preload("Days", func(q *gorm.DB) *gorm.DB { return q.Order("id ASC") }).
		Preload("Days.Exercises", func(q *gorm.DB) *gorm.DB { return q.Select("id", "training_day_id").Order("id ASC") }).
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list training plans: %w", err)
	}

	snapshots := make([]PlanSnapshot, 0, len(plans))
	var exerciseIDs []uint
	for _, plan := range plans {
		snapshot := PlanSnapshot{ID: plan.ID, Name: plan.Name}
		for _, day := range plan.Days {
			daySnapshot := DaySnapshot{ID: day.ID, Name: day.Name}
			for _, exercise := range day.Exercises {
				daySnapshot.ExerciseIDs = append(daySnapshot.ExerciseIDs, exercise.ID)
				exerciseIDs = append(exerciseIDs, exercise.ID)
			}
			snapshot.Days = append(snapshot.Days, daySnapshot)
		}
		snapshots = append(snapshots, snapshot)
	}

	logs, err := logsForExercises(tx, exerciseIDs)
	if err != nil {
		return nil, err
	}

	status := ComputeTrainingStatus(snapshots, latestByExercise(logs))
	return &status, nil
}

func latestByExercise(logs []db.WorkoutLog) map[uint]time.Time {
	latest := make(map[uint]time.Time, len(logs))
	for _, entry := range logs {
		if current, ok := latest[entry.ExerciseID]; !ok || entry.CompletedAt.After(current) {
			latest[entry.ExerciseID] = entry.CompletedAt
		}
	}
	return latest
}
