package db

import "time"

// Exercise 是训练日中的一个具体动作，Weight 为当前重量
// 模板被删除时 ExerciseTemplateID 置空，动作本身保留
type Exercise struct {
	ID                 uint   `gorm:"primaryKey"`
	TrainingDayID      uint   `gorm:"index;not null"`
	ExerciseTemplateID *uint  `gorm:"index"`
	Name               string `gorm:"not null"`
	Sets               int
	RepsMin            int
	RepsMax            int
	Weight             float64
	Increment          float64
	Order              int `gorm:"column:sort_order"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
