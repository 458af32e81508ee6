package handler

import (
	"time"

	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/service"
)

type templateView struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	DescriptionHTML  string  `json:"descriptionHtml"`
	DefaultSets      int     `json:"defaultSets"`
	DefaultRepsMin   int     `json:"defaultRepsMin"`
	DefaultRepsMax   int     `json:"defaultRepsMax"`
	DefaultWeight    float64 `json:"defaultWeight"`
	DefaultIncrement float64 `json:"defaultIncrement"`
}

type exerciseView struct {
	ID            uint    `json:"id"`
	TrainingDayID uint    `json:"trainingDayId"`
	TemplateID    *uint   `json:"templateId"`
	Name          string  `json:"name"`
	Sets          int     `json:"sets"`
	RepsMin       int     `json:"repsMin"`
	RepsMax       int     `json:"repsMax"`
	Weight        float64 `json:"weight"`
	Increment     float64 `json:"increment"`
	Order         int     `json:"order"`
}

type dayView struct {
	ID        uint           `json:"id"`
	PlanID    *uint          `json:"planId"`
	Name      string         `json:"name"`
	Exercises []exerciseView `json:"exercises"`
}

type planView struct {
	ID   uint      `json:"id"`
	Name string    `json:"name"`
	Days []dayView `json:"days"`
}

type weightPointView struct {
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recordedAt"`
}

type workoutLogView struct {
	ID            uint      `json:"id"`
	ExerciseID    uint      `json:"exerciseId"`
	Weight        float64   `json:"weight"`
	SetsCompleted int       `json:"setsCompleted"`
	TotalSets     int       `json:"totalSets"`
	RepsAchieved  bool      `json:"repsAchieved"`
	SetWeights    []float64 `json:"setWeights"`
	CompletedAt   time.Time `json:"completedAt"`
}

type progressionItemView struct {
	ExerciseID    uint    `json:"exerciseId"`
	ExerciseName  string  `json:"exerciseName"`
	DayID         uint    `json:"dayId"`
	DayName       string  `json:"dayName"`
	TemplateID    *uint   `json:"templateId"`
	Category      string  `json:"category"`
	CurrentWeight float64 `json:"currentWeight"`
	OldWeight     float64 `json:"oldWeight"`
	PercentChange float64 `json:"percentChange"`
}

type categoryGroupView struct {
	Category      string                `json:"category"`
	AverageChange float64               `json:"averageChange"`
	Items         []progressionItemView `json:"items"`
}

func newTemplateView(t db.ExerciseTemplate) templateView {
	// 渲染失败时只返回原始 Markdown
	rendered, _ := service.RenderDescription(t.Description)
	return templateView{
		ID:               t.ID,
		Name:             t.Name,
		Category:         t.Category,
		Description:      t.Description,
		DescriptionHTML:  rendered,
		DefaultSets:      t.DefaultSets,
		DefaultRepsMin:   t.DefaultRepsMin,
		DefaultRepsMax:   t.DefaultRepsMax,
		DefaultWeight:    t.DefaultWeight,
		DefaultIncrement: t.DefaultIncrement,
	}
}

func newExerciseView(e db.Exercise) exerciseView {
	return exerciseView{
		ID:            e.ID,
		TrainingDayID: e.TrainingDayID,
		TemplateID:    e.ExerciseTemplateID,
		Name:          e.Name,
		Sets:          e.Sets,
		RepsMin:       e.RepsMin,
		RepsMax:       e.RepsMax,
		Weight:        e.Weight,
		Increment:     e.Increment,
		Order:         e.Order,
	}
}

func newDayView(d db.TrainingDay) dayView {
	view := dayView{ID: d.ID, PlanID: d.PlanID, Name: d.Name, Exercises: make([]exerciseView, 0, len(d.Exercises))}
	for _, exercise := range d.Exercises {
		view.Exercises = append(view.Exercises, newExerciseView(exercise))
	}
	return view
}

func newPlanView(p db.TrainingPlan) planView {
	view := planView{ID: p.ID, Name: p.Name, Days: make([]dayView, 0, len(p.Days))}
	for _, day := range p.Days {
		view.Days = append(view.Days, newDayView(day))
	}
	return view
}

func newWorkoutLogView(l db.WorkoutLog) workoutLogView {
	setWeights := []float64(l.SetWeights)
	if setWeights == nil {
		setWeights = []float64{}
	}
	return workoutLogView{
		ID:            l.ID,
		ExerciseID:    l.ExerciseID,
		Weight:        l.Weight,
		SetsCompleted: l.SetsCompleted,
		TotalSets:     l.TotalSets,
		RepsAchieved:  l.RepsAchieved,
		SetWeights:    setWeights,
		CompletedAt:   l.CompletedAt,
	}
}

func newCategoryGroupViews(groups []service.CategoryGroup) []categoryGroupView {
	views := make([]categoryGroupView, 0, len(groups))
	for _, group := range groups {
		view := categoryGroupView{
			Category:      group.Category,
			AverageChange: group.AverageChange,
			Items:         make([]progressionItemView, 0, len(group.Items)),
		}
		for _, item := range group.Items {
			view.Items = append(view.Items, progressionItemView{
				ExerciseID:    item.ExerciseID,
				ExerciseName:  item.ExerciseName,
				DayID:         item.DayID,
				DayName:       item.DayName,
				TemplateID:    item.TemplateID,
				Category:      item.Category,
				CurrentWeight: item.CurrentWeight,
				OldWeight:     item.OldWeight,
				PercentChange: item.PercentChange,
			})
		}
		views = append(views, view)
	}
	return views
}
