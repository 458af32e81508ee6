package db

import (
	"time"

	"gorm.io/datatypes"
)

// WorkoutLog 记录一次训练中完成某个动作的事件，写入后不再修改
// SetWeights 为可选的逐组重量
type WorkoutLog struct {
	ID            uint `gorm:"primaryKey"`
	ExerciseID    uint `gorm:"index;not null"`
	Weight        float64
	SetsCompleted int
	TotalSets     int
	RepsAchieved  bool
	SetWeights    datatypes.JSONSlice[float64]
	CompletedAt   time.Time `gorm:"index"`
}

// TableName 指定自定义表名。
func (WorkoutLog) TableName() string {
	return "workout_logs"
}
