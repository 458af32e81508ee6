package db

import "time"

// ExerciseTemplate 是用户动作库中的可复用动作定义
// Category 为自由文本，统计时与默认分类集合比对归组
// Description 使用 Markdown，展示前经过渲染与清洗
type ExerciseTemplate struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           uint   `gorm:"index;not null"`
	Name             string `gorm:"not null"`
	Category         string
	Description      string
	DefaultSets      int
	DefaultRepsMin   int
	DefaultRepsMax   int
	DefaultWeight    float64
	DefaultIncrement float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName 指定自定义表名。
func (ExerciseTemplate) TableName() string {
	return "exercise_templates"
}
