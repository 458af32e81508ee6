package main

import (
	"flag"
	"fmt"

	"github.com/liftlog/internal/config"
	"github.com/liftlog/internal/db"
	log "github.com/sirupsen/logrus"
)

func main() {
	username := flag.String("username", "admin", "用户名")
	password := flag.String("password", "admin123", "密码")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}

	// 初始化数据库
	if err := db.Init(cfg); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close()

	user, err := db.EnsureUser(db.DB, *username, *password)
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}
	if user == nil {
		log.Fatal("用户名和密码不能为空")
	}

	fmt.Printf("用户已就绪: %s (id=%d)\n", user.Username, user.ID)
}
