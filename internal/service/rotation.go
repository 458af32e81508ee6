package service

import (
	"cmp"
	"slices"
	"time"
)

// PlanSnapshot 是计算训练状态所需的计划快照，Days 按存储顺序排列
type PlanSnapshot struct {
	ID   uint
	Name string
	Days []DaySnapshot
}

// DaySnapshot 只保留训练日当前挂载的动作 ID；已删除动作的历史日志因此自然不参与计算
type DaySnapshot struct {
	ID          uint
	Name        string
	ExerciseIDs []uint
}

// PlanTrainingStatus 是某个计划最近一次训练的训练日
type PlanTrainingStatus struct {
	DayID     uint
	DayName   string
	TrainedAt time.Time
}

// SuggestedDay 是推荐的下一个训练日
type SuggestedDay struct {
	ID            uint
	Name          string
	PlanID        uint
	PlanName      string
	ExerciseCount int
}

// TrainingStatus 汇总各计划的最近训练与下一次训练推荐
type TrainingStatus struct {
	LastTrainedByPlan map[uint]PlanTrainingStatus
	SuggestedDay      *SuggestedDay
}

// ComputeTrainingStatus 根据计划快照与每个动作最近完成时间计算训练状态。
// 时间相同时以遍历顺序中先出现的计划/训练日为准。
func ComputeTrainingStatus(plans []PlanSnapshot, lastCompleted map[uint]time.Time) TrainingStatus {
	status := TrainingStatus{LastTrainedByPlan: make(map[uint]PlanTrainingStatus)}

	var (
		global      PlanTrainingStatus
		globalPlan  int
		globalFound bool
	)

	for i, plan := range plans {
		var (
			best  PlanTrainingStatus
			found bool
		)
		for _, day := range plan.Days {
			trainedAt, ok := latestCompletion(day.ExerciseIDs, lastCompleted)
			if !ok {
				continue
			}
			if !found || trainedAt.After(best.TrainedAt) {
				best = PlanTrainingStatus{DayID: day.ID, DayName: day.Name, TrainedAt: trainedAt}
				found = true
			}
		}
		if !found {
			continue
		}

		status.LastTrainedByPlan[plan.ID] = best
		if !globalFound || best.TrainedAt.After(global.TrainedAt) {
			global = best
			globalPlan = i
			globalFound = true
		}
	}

	if globalFound {
		plan := plans[globalPlan]
		if next := NextInRotation(rotationDays(plan), global.DayID); next != nil {
			status.SuggestedDay = next
			return status
		}
	}

	for _, plan := range plans {
		if rotation := rotationDays(plan); len(rotation) > 0 {
			first := rotation[0]
			status.SuggestedDay = &first
			break
		}
	}
	return status
}

// NextInRotation 将训练日按 ID 稳定排序，返回 lastDayID 之后的一天，末尾回绕到第一天。
// lastDayID 不在列表中时返回第一天，列表为空时返回 nil。
func NextInRotation(days []SuggestedDay, lastDayID uint) *SuggestedDay {
	if len(days) == 0 {
		return nil
	}

	ordered := slices.Clone(days)
	slices.SortStableFunc(ordered, func(a, b SuggestedDay) int {
		return cmp.Compare(a.ID, b.ID)
	})

	idx := slices.IndexFunc(ordered, func(d SuggestedDay) bool { return d.ID == lastDayID })
	next := ordered[(idx+1)%len(ordered)]
	return &next
}

// rotationDays 返回计划中至少包含一个动作的训练日，按 ID 升序
func rotationDays(plan PlanSnapshot) []SuggestedDay {
	days := make([]SuggestedDay, 0, len(plan.Days))
	for _, day := range plan.Days {
		if len(day.ExerciseIDs) == 0 {
			continue
		}
		days = append(days, SuggestedDay{
			ID:            day.ID,
			Name:          day.Name,
			PlanID:        plan.ID,
			PlanName:      plan.Name,
			ExerciseCount: len(day.ExerciseIDs),
		})
	}
	slices.SortStableFunc(days, func(a, b SuggestedDay) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return days
}

func latestCompletion(exerciseIDs []uint, lastCompleted map[uint]time.Time) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, id := range exerciseIDs {
		completedAt, ok := lastCompleted[id]
		if !ok {
			continue
		}
		if !found || completedAt.After(latest) {
			latest = completedAt
			found = true
		}
	}
	return latest, found
}
