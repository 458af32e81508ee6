package service

import (
	"errors"
	"testing"
	"time"

	"github.com/liftlog/internal/db"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExerciseServiceIncrementChain(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	day, err := f.plans.CreateDay(t.Context(), userID, nil, "Push")
	if err != nil {
		t.Fatalf("CreateDay returned error: %v", err)
	}

	exercise := f.createExercise(t, userID, day.ID, "Bench Press", 20, 2.5, nil)

	want := []float64{22.5, 25, 27.5}
	for i, expected := range want {
		f.clock.Advance(time.Hour)
		updated, err := f.exercises.Increment(t.Context(), userID, exercise.ID)
		if err != nil {
			t.Fatalf("Increment %d returned error: %v", i, err)
		}
		if updated.Weight != expected {
			t.Fatalf("increment %d: expected %.2f, got %.2f", i, expected, updated.Weight)
		}
	}

	history, err := f.ledger.History(t.Context(), userID, exercise.ID)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 ledger entries, got %d", len(history))
	}

	sorted := SortLedger(history)
	for i, expected := range []float64{20, 22.5, 25, 27.5} {
		if sorted[i].Weight != expected {
			t.Fatalf("ledger entry %d: expected %.2f, got %.2f", i, expected, sorted[i].Weight)
		}
	}

	if got := testutil.ToFloat64(f.metrics.CounterWeightChanges.WithLabelValues("increment")); got != 3 {
		t.Fatalf("expected 3 increment observations, got %v", got)
	}
}

func TestExerciseServiceDecrementFloorsAtZero(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	day, _ := f.plans.CreateDay(t.Context(), userID, nil, "Core")

	exercise := f.createExercise(t, userID, day.ID, "Plank", 5, 2.5, nil)

	var last *db.Exercise
	for i := 0; i < 5; i++ {
		updated, err := f.exercises.Decrement(t.Context(), userID, exercise.ID)
		if err != nil {
			t.Fatalf("Decrement %d returned error: %v", i, err)
		}
		if updated.Weight < 0 {
			t.Fatalf("weight went negative: %.2f", updated.Weight)
		}
		last = updated
	}
	if last.Weight != 0 {
		t.Fatalf("expected weight to settle at 0, got %.2f", last.Weight)
	}

	history, err := f.ledger.History(t.Context(), userID, exercise.ID)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 6 {
		t.Fatalf("expected 6 ledger entries, got %d", len(history))
	}
}

func TestStepWeight(t *testing.T) {
	cases := []struct {
		current, increment float64
		direction          int
		want               float64
	}{
		{20, 2.5, directionIncrement, 22.5},
		{0.1, 0.2, directionIncrement, 0.3},
		{1, 2.5, directionDecrement, 0},
		{0, 2.5, directionDecrement, 0},
		{10, 0, directionIncrement, 10},
	}
	for _, tc := range cases {
		if got := StepWeight(tc.current, tc.increment, tc.direction); got != tc.want {
			t.Fatalf("StepWeight(%v, %v, %d) = %v, want %v", tc.current, tc.increment, tc.direction, got, tc.want)
		}
	}
}

func TestExerciseServiceCreateUsesTemplateDefaults(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	day, _ := f.plans.CreateDay(t.Context(), userID, nil, "Legs")

	template, err := f.templates.Create(t.Context(), userID, TemplateInput{
		Name:             "Squat",
		Category:         "legs",
		DefaultSets:      5,
		DefaultRepsMin:   3,
		DefaultRepsMax:   5,
		DefaultWeight:    60,
		DefaultIncrement: 5,
	})
	if err != nil {
		t.Fatalf("Create template returned error: %v", err)
	}

	exercise, err := f.exercises.Create(t.Context(), userID, ExerciseInput{TrainingDayID: day.ID, TemplateID: &template.ID})
	if err != nil {
		t.Fatalf("Create exercise returned error: %v", err)
	}
	if exercise.Name != "Squat" || exercise.Sets != 5 || exercise.RepsMin != 3 || exercise.RepsMax != 5 {
		t.Fatalf("template defaults not applied: %+v", exercise)
	}
	if exercise.Weight != 60 || exercise.Increment != 5 {
		t.Fatalf("unexpected weight/increment: %.2f/%.2f", exercise.Weight, exercise.Increment)
	}

	second, err := f.exercises.Create(t.Context(), userID, ExerciseInput{TrainingDayID: day.ID, Name: "Lunge"})
	if err != nil {
		t.Fatalf("Create exercise returned error: %v", err)
	}
	if second.Sets != defaultExerciseSets || second.Increment != defaultExerciseIncrement {
		t.Fatalf("expected fallback defaults, got sets=%d increment=%.2f", second.Sets, second.Increment)
	}
	if second.Order != 1 {
		t.Fatalf("expected order 1 for second exercise, got %d", second.Order)
	}

	history, err := f.ledger.History(t.Context(), userID, exercise.ID)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 1 || history[0].Weight != 60 {
		t.Fatalf("expected creation snapshot at 60, got %+v", history)
	}
}

func TestExerciseServiceCreateValidation(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	day, _ := f.plans.CreateDay(t.Context(), userID, nil, "Push")

	negative := -5.0
	if _, err := f.exercises.Create(t.Context(), userID, ExerciseInput{TrainingDayID: day.ID, Name: "Dip", Weight: &negative}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for negative weight, got %v", err)
	}
	if _, err := f.exercises.Create(t.Context(), userID, ExerciseInput{TrainingDayID: day.ID}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing name, got %v", err)
	}

	var count int64
	f.db.Model(&db.Exercise{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no exercises to be created, got %d", count)
	}
}

func TestExerciseServiceUpdateDoesNotTouchLedger(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	day, _ := f.plans.CreateDay(t.Context(), userID, nil, "Pull")
	exercise := f.createExercise(t, userID, day.ID, "Row", 40, 2.5, nil)

	updated, err := f.exercises.Update(t.Context(), userID, exercise.ID, ExercisePatch{
		Name:   ptr("Barbell Row"),
		Weight: ptr(42.5),
		Sets:   ptr(4),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Barbell Row" || updated.Weight != 42.5 || updated.Sets != 4 {
		t.Fatalf("patch not applied: %+v", updated)
	}

	if _, err := f.exercises.Update(t.Context(), userID, exercise.ID, ExercisePatch{Weight: ptr(-1.0)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	history, _ := f.ledger.History(t.Context(), userID, exercise.ID)
	if len(history) != 1 {
		t.Fatalf("expected ledger to keep only the creation snapshot, got %d entries", len(history))
	}
}

func TestExerciseServiceRejectsOtherUsers(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.createUser(t, "alice")
	intruder := f.createUser(t, "mallory")
	day, _ := f.plans.CreateDay(t.Context(), owner, nil, "Push")
	exercise := f.createExercise(t, owner, day.ID, "Bench", 60, 2.5, nil)

	if _, err := f.exercises.Increment(t.Context(), intruder, exercise.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on increment, got %v", err)
	}
	if _, err := f.exercises.Create(t.Context(), intruder, ExerciseInput{TrainingDayID: day.ID, Name: "Sneaky"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on create, got %v", err)
	}
	if err := f.exercises.Delete(t.Context(), intruder, exercise.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if _, err := f.exercises.Increment(t.Context(), owner, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing exercise, got %v", err)
	}

	reloaded, err := f.exercises.Get(t.Context(), owner, exercise.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if reloaded.Weight != 60 {
		t.Fatalf("weight changed by foreign user: %.2f", reloaded.Weight)
	}
	if got := testutil.ToFloat64(f.metrics.CounterForbidden); got != 3 {
		t.Fatalf("expected 3 forbidden observations, got %v", got)
	}
}

func TestExerciseServiceDeleteCascades(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	day, _ := f.plans.CreateDay(t.Context(), userID, nil, "Push")
	exercise := f.createExercise(t, userID, day.ID, "Bench", 60, 2.5, nil)
	f.logWorkout(t, userID, exercise.ID, 3, 3)

	if err := f.exercises.Delete(t.Context(), userID, exercise.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var ledgerCount, logCount int64
	f.db.Model(&db.WeightHistory{}).Where("exercise_id = ?", exercise.ID).Count(&ledgerCount)
	f.db.Model(&db.WorkoutLog{}).Where("exercise_id = ?", exercise.ID).Count(&logCount)
	if ledgerCount != 0 || logCount != 0 {
		t.Fatalf("expected cascade delete, ledger=%d logs=%d", ledgerCount, logCount)
	}
	if _, err := f.exercises.Get(t.Context(), userID, exercise.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
