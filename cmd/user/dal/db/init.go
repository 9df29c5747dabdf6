package db

import (
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init 由 api 进程在建立连接后注入
func Init(db *gorm.DB) {
	DB = db
}
