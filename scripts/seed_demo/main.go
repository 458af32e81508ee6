package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/liftlog/internal/config"
	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/service"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type demoExercise struct {
	template  string
	category  string
	weight    float64
	increment float64
}

var demoPlan = []struct {
	day       string
	exercises []demoExercise
}{
	{"Push", []demoExercise{
		{"Bench Press", "chest", 60, 2.5},
		{"Overhead Press", "shoulders", 35, 2.5},
		{"Triceps Pushdown", "arms", 20, 2.5},
	}},
	{"Pull", []demoExercise{
		{"Barbell Row", "back", 50, 2.5},
		{"Pull-up", "back", 0, 2.5},
		{"Biceps Curl", "arms", 12, 1},
	}},
	{"Legs", []demoExercise{
		{"Squat", "legs", 80, 5},
		{"Romanian Deadlift", "legs", 70, 5},
		{"Plank", "core", 0, 0},
	}},
}

func main() {
	username := flag.String("username", "demo", "演示用户")
	password := flag.String("password", "demo123", "演示用户密码")
	weeks := flag.Int("weeks", 8, "生成的训练周数")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}
	if err := db.Init(cfg); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close()

	user, err := db.EnsureUser(db.DB, *username, *password)
	if err != nil || user == nil {
		log.Fatalf("创建演示用户失败: %v", err)
	}

	if err := seed(context.Background(), db.DB, user.ID, *weeks); err != nil {
		log.Fatalf("生成演示数据失败: %v", err)
	}
	fmt.Printf("演示数据已生成: 用户 %s, %d 周\n", user.Username, *weeks)
}

// seed 生成一个推/拉/腿计划，并按每周三练模拟训练与加重
func seed(ctx context.Context, gdb *gorm.DB, userID uint, weeks int) error {
	start := time.Now().UTC().AddDate(0, 0, -7*weeks)
	clock := start
	now := func() time.Time { return clock }

	owners := service.NewOwnershipResolver(nil)
	templates := service.NewTemplateService(gdb, owners)
	plans := service.NewPlanService(gdb, owners)
	exercises := service.NewExerciseService(gdb, owners, nil).WithClock(now)
	logs := service.NewWorkoutLogService(gdb, owners, nil).WithClock(now)

	dayNames := make([]string, 0, len(demoPlan))
	for _, day := range demoPlan {
		dayNames = append(dayNames, day.day)
	}
	plan, err := plans.CreatePlan(ctx, userID, "Push / Pull / Legs", dayNames)
	if err != nil {
		return err
	}

	dayExercises := make([][]uint, len(demoPlan))
	for i, day := range demoPlan {
		for _, ex := range day.exercises {
			template, err := templates.Create(ctx, userID, service.TemplateInput{
				Name:             ex.template,
				Category:         ex.category,
				DefaultWeight:    ex.weight,
				DefaultIncrement: ex.increment,
			})
			if err != nil {
				return err
			}
			increment := ex.increment
			exercise, err := exercises.Create(ctx, userID, service.ExerciseInput{
				TrainingDayID: plan.Days[i].ID,
				TemplateID:    &template.ID,
				Increment:     &increment,
			})
			if err != nil {
				return err
			}
			dayExercises[i] = append(dayExercises[i], exercise.ID)
		}
	}

	for session := 0; session < weeks*3; session++ {
		clock = start.Add(time.Duration(session) * 56 * time.Hour)
		for _, exerciseID := range dayExercises[session%len(demoPlan)] {
			exercise, err := exercises.Get(ctx, userID, exerciseID)
			if err != nil {
				return err
			}
			completed := exercise.Sets
			if rand.Intn(4) == 0 {
				completed--
			}
			weight := exercise.Weight
			result, err := logs.Append(ctx, userID, service.WorkoutLogInput{
				ExerciseID:    exerciseID,
				Weight:        &weight,
				SetsCompleted: completed,
				TotalSets:     exercise.Sets,
				RepsAchieved:  completed == exercise.Sets,
			})
			if err != nil {
				return err
			}
			if result.SuggestIncrease {
				if _, err := exercises.Increment(ctx, userID, exerciseID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
