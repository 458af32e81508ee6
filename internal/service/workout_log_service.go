package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkoutLogService 负责训练完成记录：只追加，不修改
type WorkoutLogService struct {
	db      *gorm.DB
	owners  *OwnershipResolver
	metrics *metrics.Manager
	now     func() time.Time
}

// WorkoutLogInput 定义“完成动作”时提交的数据
type WorkoutLogInput struct {
	ExerciseID    uint
	Weight        *float64
	SetsCompleted int
	TotalSets     int
	RepsAchieved  bool
	SetWeights    []float64
}

// WorkoutLogResult 附带前端决定是否提示加重所需的信号
type WorkoutLogResult struct {
	Log              db.WorkoutLog
	AllSetsCompleted bool
	SuggestIncrease  bool
	Increment        float64
}

// NewWorkoutLogService 构造 WorkoutLogService
func NewWorkoutLogService(gdb *gorm.DB, owners *OwnershipResolver, m *metrics.Manager) *WorkoutLogService {
	return &WorkoutLogService{db: gdb, owners: owners, metrics: m, now: time.Now}
}

// WithClock 允许在测试中固定完成时间。
func (s *WorkoutLogService) WithClock(now func() time.Time) *WorkoutLogService {
	if now != nil {
		s.now = now
	}
	return s
}

// Append 校验输入与归属后追加一条记录；训练日不属于该用户时返回 ErrForbidden 且不写入
func (s *WorkoutLogService) Append(ctx context.Context, userID uint, input WorkoutLogInput) (*WorkoutLogResult, error) {
	if err := validateWorkoutLogInput(input); err != nil {
		return nil, err
	}

	var result WorkoutLogResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owners.Authorize(tx, userID, KindExercise, input.ExerciseID); err != nil {
			return err
		}

		var exercise db.Exercise
		if err := tx.First(&exercise, input.ExerciseID).Error; err != nil {
			return fmt.Errorf("find exercise: %w", err)
		}

		entry := db.WorkoutLog{
			ExerciseID:    input.ExerciseID,
			Weight:        *input.Weight,
			SetsCompleted: input.SetsCompleted,
			TotalSets:     input.TotalSets,
			RepsAchieved:  input.RepsAchieved,
			CompletedAt:   s.now().UTC(),
		}
		if len(input.SetWeights) > 0 {
			entry.SetWeights = datatypes.JSONSlice[float64](input.SetWeights)
		}

		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create workout log: %w", err)
		}

		result = WorkoutLogResult{
			Log:              entry,
			AllSetsCompleted: AllSetsCompleted(entry),
			Increment:        exercise.Increment,
		}
		result.SuggestIncrease = result.AllSetsCompleted && exercise.Increment > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveWorkoutLog()
	logrus.WithFields(logrus.Fields{
		"exercise_id": input.ExerciseID,
		"user_id":     userID,
		"sets":        fmt.Sprintf("%d/%d", input.SetsCompleted, input.TotalSets),
	}).Debug("workout log appended")

	return &result, nil
}

// LastEntry 返回动作最近一次完成记录；从未训练过时返回 nil
func (s *WorkoutLogService) LastEntry(ctx context.Context, userID, exerciseID uint) (*db.WorkoutLog, error) {
	tx := s.db.WithContext(ctx)
	if err := s.owners.Authorize(tx, userID, KindExercise, exerciseID); err != nil {
		return nil, err
	}

	var logs []db.WorkoutLog
	if err := tx.Where("exercise_id = ?", exerciseID).
		Order("completed_at DESC, id DESC").
		Limit(1).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("find last workout log: %w", err)
	}

	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

// AllSetsCompleted 判断一次记录是否完成了全部组数
func AllSetsCompleted(entry db.WorkoutLog) bool {
	return entry.TotalSets > 0 && entry.SetsCompleted >= entry.TotalSets
}

// logsForExercises 批量读取日志，只取统计需要的列
func logsForExercises(tx *gorm.DB, exerciseIDs []uint) ([]db.WorkoutLog, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}

	var logs []db.WorkoutLog
	if err := tx.Select("id", "exercise_id", "sets_completed", "completed_at").
		Where("exercise_id IN ?", exerciseIDs).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}
	return logs, nil
}

func validateWorkoutLogInput(input WorkoutLogInput) error {
	if input.ExerciseID == 0 {
		return fmt.Errorf("%w: exercise id is required", ErrValidation)
	}
	if input.Weight == nil {
		return fmt.Errorf("%w: weight is required", ErrValidation)
	}
	if *input.Weight < 0 || math.IsNaN(*input.Weight) || math.IsInf(*input.Weight, 0) {
		return fmt.Errorf("%w: weight must not be negative", ErrValidation)
	}
	if input.TotalSets <= 0 {
		return fmt.Errorf("%w: total sets must be positive", ErrValidation)
	}
	if input.SetsCompleted < 0 || input.SetsCompleted > input.TotalSets {
		return fmt.Errorf("%w: sets completed must be between 0 and total sets", ErrValidation)
	}
	if len(input.SetWeights) > input.TotalSets {
		return fmt.Errorf("%w: more set weights than sets", ErrValidation)
	}
	for _, w := range input.SetWeights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: set weight must not be negative", ErrValidation)
		}
	}
	return nil
}
