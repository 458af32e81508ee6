package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/internal/db"
	"gorm.io/gorm"
)

// LedgerService 负责重量台账：只追加，不修改
type LedgerService struct {
	db     *gorm.DB
	owners *OwnershipResolver
	now    func() time.Time
}

// NewLedgerService 构造 LedgerService
func NewLedgerService(gdb *gorm.DB, owners *OwnershipResolver) *LedgerService {
	return &LedgerService{db: gdb, owners: owners, now: time.Now}
}

// WithClock 允许在测试中固定记录时间。
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	if now != nil {
		s.now = now
	}
	return s
}

// Record 为动作追加一条重量快照，动作不存在时返回 ErrNotFound
func (s *LedgerService) Record(ctx context.Context, exerciseID uint, weight float64) (*db.WeightHistory, error) {
	var entry *db.WeightHistory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exercise db.Exercise
		if err := tx.Select("id").First(&exercise, exerciseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find exercise: %w", err)
		}

		created, err := appendWeightEntry(tx, exerciseID, weight, s.now())
		if err != nil {
			return err
		}
		entry = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// History 返回动作的全部台账记录，不保证顺序；调用方按 RecordedAt 自行排序
func (s *LedgerService) History(ctx context.Context, userID, exerciseID uint) ([]db.WeightHistory, error) {
	tx := s.db.WithContext(ctx)
	if err := s.owners.Authorize(tx, userID, KindExercise, exerciseID); err != nil {
		return nil, err
	}

	var entries []db.WeightHistory
	if err := tx.Where("exercise_id = ?", exerciseID).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list weight history: %w", err)
	}
	return entries, nil
}

// entriesByExercise 批量读取多个动作的台账并按动作分组
func entriesByExercise(tx *gorm.DB, exerciseIDs []uint) (map[uint][]db.WeightHistory, error) {
	grouped := make(map[uint][]db.WeightHistory, len(exerciseIDs))
	if len(exerciseIDs) == 0 {
		return grouped, nil
	}

	var entries []db.WeightHistory
	if err := tx.Where("exercise_id IN ?", exerciseIDs).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list weight history: %w", err)
	}
	for _, entry := range entries {
		grouped[entry.ExerciseID] = append(grouped[entry.ExerciseID], entry)
	}
	return grouped, nil
}

func appendWeightEntry(tx *gorm.DB, exerciseID uint, weight float64, at time.Time) (*db.WeightHistory, error) {
	entry := db.WeightHistory{
		ExerciseID: exerciseID,
		Weight:     weight,
		RecordedAt: at.UTC(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("append weight history: %w", err)
	}
	return &entry, nil
}
