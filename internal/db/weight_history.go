package db

import "time"

// WeightHistory 是重量台账中的一条不可变快照
// 创建动作时写入初始重量，每次加减重量追加一条；只会随动作级联删除
type WeightHistory struct {
	ID         uint `gorm:"primaryKey"`
	ExerciseID uint `gorm:"index;not null"`
	Weight     float64
	RecordedAt time.Time `gorm:"index"`
}

// TableName 指定自定义表名。
func (WeightHistory) TableName() string {
	return "weight_history"
}
