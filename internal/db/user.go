package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 是所有训练数据的归属者
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"unique;not null"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnsureUser 若用户名与密码均非空且账号不存在，则以 bcrypt 哈希创建该用户。
// 账号已存在时不会覆盖密码。
func EnsureUser(gdb *gorm.DB, username, password string) (*User, error) {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil, nil
	}

	if gdb == nil {
		return nil, errors.New("database not initialized")
	}

	var existing User
	err := gdb.Where("username = ?", trimmedUser).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{Username: trimmedUser, Password: string(hashed)}
	if err := gdb.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
