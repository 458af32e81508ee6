package db

import "time"

// TrainingPlan 是一组按轮换顺序训练的训练日
type TrainingPlan struct {
	ID        uint          `gorm:"primaryKey"`
	UserID    uint          `gorm:"index;not null"`
	Name      string        `gorm:"not null"`
	Days      []TrainingDay `gorm:"foreignKey:PlanID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrainingDay 描述一个训练日；PlanID 为空表示独立训练日，不参与轮换推荐
// UserID 冗余保存，便于不经过计划直接按用户过滤
type TrainingDay struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"index;not null"`
	PlanID    *uint      `gorm:"index"`
	Name      string     `gorm:"not null"`
	Exercises []Exercise `gorm:"foreignKey:TrainingDayID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
