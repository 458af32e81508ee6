package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/internal/db"
	"gorm.io/gorm"
)

// AnalyticsService 负责根据重量台账与训练日志计算进步统计，只读不写。
type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAnalyticsService 创建 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb, now: time.Now}
}

// WithClock 允许在测试或特定场景下固定“当前时间”。
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	if now != nil {
		s.now = now
	}
	return s
}

// ProgressOverview 汇总窗口内的整体进步情况。
type ProgressOverview struct {
	Period            Period
	Window            Window
	TotalTrainingDays int
	TotalSets         int
	AverageChange     float64
	Groups            []CategoryGroup
}

// WeightPoint 是趋势图中的一个数据点。
type WeightPoint struct {
	ExerciseID uint
	Weight     float64
	RecordedAt time.Time
}

// ProgressDetail 描述某个模板在窗口内的进步详情。
type ProgressDetail struct {
	TemplateID    uint
	TemplateName  string
	Category      string
	Period        Period
	TotalWorkouts int
	CurrentWeight float64
	OldWeight     float64
	PercentChange float64
	WeightHistory []WeightPoint
	EnoughData    bool
}

// Overview 计算用户全部动作（按模板去重后）的进步概览。
// 没有数据时返回全零结构，不返回错误。
func (s *AnalyticsService) Overview(ctx context.Context, userID uint, period Period) (*ProgressOverview, error) {
	window := period.Window(s.now())
	overview := &ProgressOverview{
		Period: period,
		Window: window,
		Groups: []CategoryGroup{},
	}

	tx := s.db.WithContext(ctx)

	var days []db.TrainingDay
	if err := tx.Where("user_id = ?", userID).
		Preload("Exercises", func(q *gorm.DB) *gorm.DB { return q.Order("id ASC") }).
		Order("id ASC").
		Find(&days).Error; err != nil {
		return nil, fmt.Errorf("list training days: %w", err)
	}

	var exerciseIDs []uint
	var templateIDs []uint
	exerciseDay := make(map[uint]uint)
	for _, day := range days {
		for _, exercise := range day.Exercises {
			exerciseIDs = append(exerciseIDs, exercise.ID)
			exerciseDay[exercise.ID] = day.ID
			if exercise.ExerciseTemplateID != nil {
				templateIDs = append(templateIDs, *exercise.ExerciseTemplateID)
			}
		}
	}
	if len(exerciseIDs) == 0 {
		return overview, nil
	}

	categories, err := s.templateCategories(tx, userID, templateIDs)
	if err != nil {
		return nil, err
	}

	ledgers, err := entriesByExercise(tx, exerciseIDs)
	if err != nil {
		return nil, err
	}

	items := make([]ProgressionItem, 0, len(exerciseIDs))
	for _, day := range days {
		for _, exercise := range day.Exercises {
			var category string
			if exercise.ExerciseTemplateID != nil {
				category = categories[*exercise.ExerciseTemplateID]
			}
			items = append(items, BuildProgressionItem(exercise, day.Name, category, ledgers[exercise.ID], window))
		}
	}

	representatives := Representatives(items)
	overview.Groups = GroupByCategory(representatives)
	overview.AverageChange = AverageChange(representatives)

	logs, err := logsForExercises(tx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	touchedDays := make(map[uint]struct{})
	for _, entry := range logs {
		if !window.Contains(entry.CompletedAt) {
			continue
		}
		overview.TotalSets += entry.SetsCompleted
		touchedDays[exerciseDay[entry.ExerciseID]] = struct{}{}
	}
	overview.TotalTrainingDays = len(touchedDays)

	return overview, nil
}

// Detail 返回模板维度的进步详情与完整趋势数据；模板不存在或不属于该用户时返回 nil。
func (s *AnalyticsService) Detail(ctx context.Context, userID, templateID uint, period Period) (*ProgressDetail, error) {
	window := period.Window(s.now())
	tx := s.db.WithContext(ctx)

	var template db.ExerciseTemplate
	if err := tx.Where("id = ? AND user_id = ?", templateID, userID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	detail := &ProgressDetail{
		TemplateID:    template.ID,
		TemplateName:  template.Name,
		Category:      NormalizeCategory(template.Category),
		Period:        period,
		WeightHistory: []WeightPoint{},
	}

	var exercises []db.Exercise
	if err := tx.Model(&db.Exercise{}).
		Joins("JOIN training_days ON training_days.id = exercises.training_day_id").
		Where("exercises.exercise_template_id = ? AND training_days.user_id = ?", templateID, userID).
		Order("exercises.training_day_id ASC").
		Order("exercises.id ASC").
		Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("list template exercises: %w", err)
	}
	if len(exercises) == 0 {
		return detail, nil
	}

	exerciseIDs := make([]uint, 0, len(exercises))
	for _, exercise := range exercises {
		exerciseIDs = append(exerciseIDs, exercise.ID)
	}

	ledgers, err := entriesByExercise(tx, exerciseIDs)
	if err != nil {
		return nil, err
	}

	// 与概览相同的训练日、动作顺序和去重规则
	items := make([]ProgressionItem, 0, len(exercises))
	for _, exercise := range exercises {
		items = append(items, BuildProgressionItem(exercise, "", template.Category, ledgers[exercise.ID], window))
	}
	item := Representatives(items)[0]
	detail.CurrentWeight = item.CurrentWeight
	detail.OldWeight = item.OldWeight
	detail.PercentChange = item.PercentChange

	var all []db.WeightHistory
	for _, id := range exerciseIDs {
		all = append(all, ledgers[id]...)
	}
	for _, entry := range SortLedger(all) {
		if !window.Contains(entry.RecordedAt) {
			continue
		}
		detail.WeightHistory = append(detail.WeightHistory, WeightPoint{
			ExerciseID: entry.ExerciseID,
			Weight:     entry.Weight,
			RecordedAt: entry.RecordedAt,
		})
	}
	detail.EnoughData = len(detail.WeightHistory) >= MinChartPoints

	logs, err := logsForExercises(tx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	for _, entry := range logs {
		if window.Contains(entry.CompletedAt) {
			detail.TotalWorkouts++
		}
	}

	return detail, nil
}

func (s *AnalyticsService) templateCategories(tx *gorm.DB, userID uint, templateIDs []uint) (map[uint]string, error) {
	categories := make(map[uint]string, len(templateIDs))
	if len(templateIDs) == 0 {
		return categories, nil
	}

	var templates []db.ExerciseTemplate
	if err := tx.Select("id", "category").
		Where("id IN ? AND user_id = ?", templateIDs, userID).
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list template categories: %w", err)
	}
	for _, template := range templates {
		categories[template.ID] = template.Category
	}
	return categories, nil
}
