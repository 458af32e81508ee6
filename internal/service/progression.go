package service

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/liftlog/internal/db"
)

// Period 是统计时间窗口的选择器
type Period string

const (
	PeriodDefault   Period = ""
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
	PeriodThisYear  Period = "this_year"
	PeriodLastYear  Period = "last_year"
	PeriodAll       Period = "all"

	defaultPeriodDays = 30

	// UncategorizedCategory 是没有分类的动作所归入的分组
	UncategorizedCategory = "uncategorized"

	// MinChartPoints 是绘制趋势图所需的最少数据点，少于该值时前端展示“数据不足”
	MinChartPoints = 2
)

// DefaultCategories 是默认分类集合，概览中按此顺序排在自定义分类之前
var DefaultCategories = []string{"chest", "back", "legs", "shoulders", "arms", "core", "cardio"}

// ParsePeriod 解析窗口参数，未识别的值回退到默认的最近 30 天
func ParsePeriod(raw string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case PeriodThisMonth, PeriodLastMonth, PeriodThisYear, PeriodLastYear, PeriodAll:
		return p
	default:
		return PeriodDefault
	}
}

// Window 是半开区间 [Start, End)；Start 为零值表示没有下界，End 为零值表示没有上界
type Window struct {
	Start time.Time
	End   time.Time
}

// Window 根据当前时间计算窗口
func (p Period) Window(now time.Time) Window {
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)

	switch p {
	case PeriodThisMonth:
		return Window{Start: monthStart, End: monthStart.AddDate(0, 1, 0)}
	case PeriodLastMonth:
		return Window{Start: monthStart.AddDate(0, -1, 0), End: monthStart}
	case PeriodThisYear:
		return Window{Start: yearStart, End: yearStart.AddDate(1, 0, 0)}
	case PeriodLastYear:
		return Window{Start: yearStart.AddDate(-1, 0, 0), End: yearStart}
	case PeriodAll:
		return Window{}
	default:
		return Window{Start: now.AddDate(0, 0, -defaultPeriodDays)}
	}
}

// Bounded 表示窗口是否有下界
func (w Window) Bounded() bool {
	return !w.Start.IsZero()
}

// Contains 判断时间点是否落在窗口内
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

// SortLedger 按记录时间升序排列台账，时间相同时按 ID
func SortLedger(entries []db.WeightHistory) []db.WeightHistory {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b db.WeightHistory) int {
		if c := a.RecordedAt.Compare(b.RecordedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// SelectOldEntry 在已升序排列的台账中选出对比基准：
// 第一条 RecordedAt <= 窗口起点的记录；不存在时回退到最早一条。
// 窗口无下界时直接取最早一条。台账为空时 ok 为 false。
func SelectOldEntry(sorted []db.WeightHistory, window Window) (entry db.WeightHistory, ok bool) {
	if len(sorted) == 0 {
		return db.WeightHistory{}, false
	}
	if !window.Bounded() {
		return sorted[0], true
	}
	for _, candidate := range sorted {
		if !candidate.RecordedAt.After(window.Start) {
			return candidate, true
		}
	}
	return sorted[0], true
}

// PercentChange 计算变化百分比并保留一位小数；基准为 0 时返回 0
func PercentChange(oldWeight, currentWeight float64) float64 {
	if oldWeight == 0 {
		return 0
	}
	return math.Round(((currentWeight-oldWeight)/oldWeight)*1000) / 10
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// ProgressionItem 是单个动作在窗口内的进步数据
type ProgressionItem struct {
	ExerciseID    uint
	ExerciseName  string
	DayID         uint
	DayName       string
	TemplateID    *uint
	Category      string
	CurrentWeight float64
	OldWeight     float64
	PercentChange float64
}

// BuildProgressionItem 根据动作当前重量与其台账计算进步数据
func BuildProgressionItem(exercise db.Exercise, dayName, category string, ledger []db.WeightHistory, window Window) ProgressionItem {
	item := ProgressionItem{
		ExerciseID:    exercise.ID,
		ExerciseName:  exercise.Name,
		DayID:         exercise.TrainingDayID,
		DayName:       dayName,
		TemplateID:    exercise.ExerciseTemplateID,
		Category:      NormalizeCategory(category),
		CurrentWeight: exercise.Weight,
		OldWeight:     exercise.Weight,
	}

	if old, ok := SelectOldEntry(SortLedger(ledger), window); ok {
		item.OldWeight = old.Weight
	}
	item.PercentChange = PercentChange(item.OldWeight, item.CurrentWeight)
	return item
}

type representativeKey struct {
	byTemplate bool
	id         uint
}

func keyFor(item ProgressionItem) representativeKey {
	if item.TemplateID != nil {
		return representativeKey{byTemplate: true, id: *item.TemplateID}
	}
	return representativeKey{id: item.ExerciseID}
}

// Representatives 按模板去重（无模板时按动作 ID），保留当前重量最高的一条；
// 重量相同时保留先出现的。结果保持各分组首次出现的顺序。
func Representatives(items []ProgressionItem) []ProgressionItem {
	index := make(map[representativeKey]int, len(items))
	result := make([]ProgressionItem, 0, len(items))

	for _, item := range items {
		key := keyFor(item)
		pos, exists := index[key]
		if !exists {
			index[key] = len(result)
			result = append(result, item)
			continue
		}
		if item.CurrentWeight > result[pos].CurrentWeight {
			result[pos] = item
		}
	}
	return result
}

// NormalizeCategory 归一化分类：空值归入 uncategorized，默认分类统一为小写
func NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UncategorizedCategory
	}
	lower := strings.ToLower(trimmed)
	if lower == UncategorizedCategory || slices.Contains(DefaultCategories, lower) {
		return lower
	}
	return trimmed
}

// CategoryGroup 是概览中的一个分类分组
type CategoryGroup struct {
	Category      string
	Items         []ProgressionItem
	AverageChange float64
}

// AverageChange 计算平均变化百分比，空集合为 0
func AverageChange(items []ProgressionItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += item.PercentChange
	}
	return roundOneDecimal(sum / float64(len(items)))
}

// GroupByCategory 将代表项按分类分组，组内按变化百分比降序。
// 分组顺序：默认分类、其余分类按名称、最后是 uncategorized。
func GroupByCategory(items []ProgressionItem) []CategoryGroup {
	buckets := make(map[string][]ProgressionItem)
	for _, item := range items {
		category := NormalizeCategory(item.Category)
		buckets[category] = append(buckets[category], item)
	}

	categories := make([]string, 0, len(buckets))
	for category := range buckets {
		categories = append(categories, category)
	}
	slices.SortFunc(categories, func(a, b string) int {
		if c := cmp.Compare(categoryRank(a), categoryRank(b)); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	groups := make([]CategoryGroup, 0, len(categories))
	for _, category := range categories {
		members := buckets[category]
		slices.SortStableFunc(members, func(a, b ProgressionItem) int {
			return cmp.Compare(b.PercentChange, a.PercentChange)
		})
		groups = append(groups, CategoryGroup{
			Category:      category,
			Items:         members,
			AverageChange: AverageChange(members),
		})
	}
	return groups
}

func categoryRank(category string) int {
	if idx := slices.Index(DefaultCategories, category); idx >= 0 {
		return idx
	}
	if category == UncategorizedCategory {
		return len(DefaultCategories) + 1
	}
	return len(DefaultCategories)
}
