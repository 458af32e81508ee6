package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/liftlog/internal/db"
)

func TestTemplateServiceListOrderedByName(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	other := f.createUser(t, "bob")

	for _, name := range []string{"Squat", "Bench Press", "Deadlift"} {
		if _, err := f.templates.Create(t.Context(), userID, TemplateInput{Name: name}); err != nil {
			t.Fatalf("Create %q returned error: %v", name, err)
		}
	}
	if _, err := f.templates.Create(t.Context(), other, TemplateInput{Name: "Curl"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	templates, err := f.templates.List(t.Context(), userID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(templates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(templates))
	}
	if templates[0].Name != "Bench Press" || templates[2].Name != "Squat" {
		t.Fatalf("unexpected order: %s, %s, %s", templates[0].Name, templates[1].Name, templates[2].Name)
	}
	if templates[0].DefaultSets != defaultExerciseSets || templates[0].DefaultIncrement != defaultExerciseIncrement {
		t.Fatalf("expected default sets and increment, got %+v", templates[0])
	}

	if _, err := f.templates.Create(t.Context(), userID, TemplateInput{Name: ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := f.templates.Get(t.Context(), other, templates[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign template, got %v", err)
	}
}

func TestTemplateServiceDeleteDetachesExercises(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")

	template, err := f.templates.Create(t.Context(), userID, TemplateInput{Name: "Squat", Category: "legs"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	day, _ := f.plans.CreateDay(t.Context(), userID, nil, "Legs")
	exercise := f.createExercise(t, userID, day.ID, "Back Squat", 80, 5, &template.ID)

	if err := f.templates.Delete(t.Context(), userID, template.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	reloaded, err := f.exercises.Get(t.Context(), userID, exercise.ID)
	if err != nil {
		t.Fatalf("exercise should survive template delete: %v", err)
	}
	if reloaded.ExerciseTemplateID != nil {
		t.Fatalf("expected template reference to be cleared, got %d", *reloaded.ExerciseTemplateID)
	}

	var count int64
	f.db.Model(&db.ExerciseTemplate{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected template to be deleted, got %d rows", count)
	}
}

func TestTemplateServiceDeleteOnlyDetachesOwnExercises(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.createUser(t, "alice")
	other := f.createUser(t, "bob")

	template, _ := f.templates.Create(t.Context(), owner, TemplateInput{Name: "Squat"})
	otherDay, _ := f.plans.CreateDay(t.Context(), other, nil, "Legs")

	// 绕过服务层直接写入一条引用他人模板的动作
	stray := db.Exercise{TrainingDayID: otherDay.ID, ExerciseTemplateID: &template.ID, Name: "Squat", Sets: 3}
	if err := f.db.Create(&stray).Error; err != nil {
		t.Fatalf("failed to seed exercise: %v", err)
	}

	if err := f.templates.Delete(t.Context(), other, template.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.templates.Delete(t.Context(), owner, template.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var reloaded db.Exercise
	if err := f.db.First(&reloaded, stray.ID).Error; err != nil {
		t.Fatalf("failed to reload exercise: %v", err)
	}
	if reloaded.ExerciseTemplateID == nil || *reloaded.ExerciseTemplateID != template.ID {
		t.Fatalf("expected another user's reference to be left untouched")
	}
}

func TestRenderDescription(t *testing.T) {
	html, err := RenderDescription("Keep **elbows** tucked\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderDescription returned error: %v", err)
	}
	if !strings.Contains(html, "<strong>elbows</strong>") {
		t.Fatalf("expected markdown to be rendered, got %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script to be stripped, got %q", html)
	}

	empty, err := RenderDescription("   ")
	if err != nil || empty != "" {
		t.Fatalf("expected empty output, got %q, %v", empty, err)
	}
}
