// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/mazeserver/models"
)

// Database 通关记录存储接口
type Database interface {
	SaveRunRecord(record *models.RunRecord) error
	GetRunStats() (map[string]interface{}, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
