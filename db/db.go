package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sprout/config"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DB 全局数据库连接
var DB *sql.DB

// Driver 当前驱动，决定 SQL 方言
var Driver = DriverMySQL

// Open 打开数据库连接并替换全局连接
func Open(driver, dsn string) error {
	driver = strings.ToLower(driver)
	if driver == "" {
		driver = DriverMySQL
	}
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("opening %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite 只允许单写者，批处理并发写入时串行化
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("pinging %s: %w", driver, err)
	}

	DB = conn
	Driver = driver
	return nil
}

// InitWithConfig 使用配置初始化数据库连接池
func InitWithConfig(cfg *config.Config) error {
	if err := Open(cfg.DB.Driver, cfg.DB.DSN); err != nil {
		return err
	}
	if Driver == DriverSQLite {
		return nil
	}

	// 从配置读取连接池参数，提供默认值保护
	maxOpenConns := cfg.DB.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 50 // 默认最大连接数
	}

	maxIdleConns := cfg.DB.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10 // 默认最大空闲连接数
	}

	connMaxLifetime := cfg.DB.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 60 // 默认连接最大生命周期（分钟）
	}

	DB.SetMaxOpenConns(maxOpenConns)
	DB.SetMaxIdleConns(maxIdleConns)
	DB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)
	return nil
}

// IsSQLite 当前连接是否为 sqlite
func IsSQLite() bool {
	return Driver == DriverSQLite
}

// Close 关闭全局连接
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

// sqliteDSN 统一时间格式并设置忙等待，保证时间字段可按字符串比较
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}
