package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextInRotationWrapsAround(t *testing.T) {
	days := []SuggestedDay{{ID: 30, Name: "C"}, {ID: 10, Name: "A"}, {ID: 20, Name: "B"}}

	next := NextInRotation(days, 30)
	require.NotNil(t, next)
	assert.Equal(t, "A", next.Name)

	next = NextInRotation(days, 10)
	require.NotNil(t, next)
	assert.Equal(t, "B", next.Name)
}

func TestNextInRotationSingleDay(t *testing.T) {
	days := []SuggestedDay{{ID: 4, Name: "Full body"}}

	next := NextInRotation(days, 4)
	require.NotNil(t, next)
	assert.Equal(t, uint(4), next.ID)
}

func TestNextInRotationUnknownOrEmpty(t *testing.T) {
	assert.Nil(t, NextInRotation(nil, 1))

	next := NextInRotation([]SuggestedDay{{ID: 2}, {ID: 1}}, 99)
	require.NotNil(t, next)
	assert.Equal(t, uint(1), next.ID)
}

func TestComputeTrainingStatusEmpty(t *testing.T) {
	status := ComputeTrainingStatus(nil, nil)
	assert.NotNil(t, status.LastTrainedByPlan)
	assert.Empty(t, status.LastTrainedByPlan)
	assert.Nil(t, status.SuggestedDay)
}

func TestComputeTrainingStatusSuggestsAfterMostRecentPlan(t *testing.T) {
	base := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	plans := []PlanSnapshot{
		{ID: 1, Name: "PPL", Days: []DaySnapshot{
			{ID: 1, Name: "Push", ExerciseIDs: []uint{11}},
			{ID: 2, Name: "Pull", ExerciseIDs: []uint{12}},
			{ID: 3, Name: "Legs", ExerciseIDs: []uint{13}},
		}},
		{ID: 2, Name: "Upper/Lower", Days: []DaySnapshot{
			{ID: 4, Name: "Upper", ExerciseIDs: []uint{21}},
			{ID: 5, Name: "Lower", ExerciseIDs: []uint{22}},
			{ID: 6, Name: "Empty"},
		}},
	}
	lastCompleted := map[uint]time.Time{
		11: base,
		13: base.Add(48 * time.Hour),
		22: base.Add(24 * time.Hour),
	}

	status := ComputeTrainingStatus(plans, lastCompleted)
	require.Len(t, status.LastTrainedByPlan, 2)
	assert.Equal(t, uint(3), status.LastTrainedByPlan[1].DayID)
	assert.Equal(t, uint(5), status.LastTrainedByPlan[2].DayID)

	require.NotNil(t, status.SuggestedDay)
	assert.Equal(t, "Push", status.SuggestedDay.Name)
	assert.Equal(t, uint(1), status.SuggestedDay.PlanID)
	assert.Equal(t, 1, status.SuggestedDay.ExerciseCount)
}

func TestComputeTrainingStatusSkipsDaysWithoutExercises(t *testing.T) {
	base := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	plans := []PlanSnapshot{
		{ID: 2, Name: "Upper/Lower", Days: []DaySnapshot{
			{ID: 4, Name: "Upper", ExerciseIDs: []uint{21}},
			{ID: 5, Name: "Lower", ExerciseIDs: []uint{22}},
			{ID: 6, Name: "Empty"},
		}},
	}

	status := ComputeTrainingStatus(plans, map[uint]time.Time{22: base})
	require.NotNil(t, status.SuggestedDay)
	assert.Equal(t, "Upper", status.SuggestedDay.Name)
}

func TestComputeTrainingStatusTieKeepsFirstPlan(t *testing.T) {
	at := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	plans := []PlanSnapshot{
		{ID: 1, Name: "First", Days: []DaySnapshot{{ID: 1, Name: "A", ExerciseIDs: []uint{1}}, {ID: 2, Name: "B", ExerciseIDs: []uint{2}}}},
		{ID: 2, Name: "Second", Days: []DaySnapshot{{ID: 3, Name: "C", ExerciseIDs: []uint{3}}, {ID: 4, Name: "D", ExerciseIDs: []uint{4}}}},
	}

	status := ComputeTrainingStatus(plans, map[uint]time.Time{1: at, 3: at})
	require.NotNil(t, status.SuggestedDay)
	assert.Equal(t, "B", status.SuggestedDay.Name)
}

func TestComputeTrainingStatusFallsBackToFirstTrainableDay(t *testing.T) {
	plans := []PlanSnapshot{
		{ID: 1, Name: "Draft", Days: []DaySnapshot{{ID: 1, Name: "Empty"}}},
		{ID: 2, Name: "Ready", Days: []DaySnapshot{{ID: 3, Name: "Y", ExerciseIDs: []uint{5}}, {ID: 2, Name: "X", ExerciseIDs: []uint{4}}}},
	}

	status := ComputeTrainingStatus(plans, map[uint]time.Time{})
	assert.Empty(t, status.LastTrainedByPlan)
	require.NotNil(t, status.SuggestedDay)
	assert.Equal(t, "X", status.SuggestedDay.Name)
	assert.Equal(t, "Ready", status.SuggestedDay.PlanName)
}
