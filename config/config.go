package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port" validate:"gte=0,lte=65535"`
		Addr string `yaml:"-"` // 不从配置文件读取，而是在加载后计算
	} `yaml:"server"`
	HTTP struct {
		AllowedOrigins  []string `yaml:"allowed_origins"`
		RateLimitPerMin int      `yaml:"rate_limit_per_min" validate:"gte=0"` // 每个IP每分钟请求数，0表示不限流
	} `yaml:"http"`
	SiliconFlow struct {
		APIKey         string `yaml:"api_key"`
		Model          string `yaml:"model"`
		EmbeddingModel string `yaml:"embedding_model"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSec     int    `yaml:"timeout_sec" validate:"gte=0"`
	} `yaml:"siliconflow"`
	Log struct {
		Level    string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
		Format   string `yaml:"format" validate:"omitempty,oneof=text json"`
		Output   string `yaml:"output" validate:"omitempty,oneof=stdout file both"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	DB struct {
		Driver          string `yaml:"driver" validate:"oneof=mysql sqlite"` // mysql 或 sqlite（本地开发）
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		Path            string `yaml:"path"`                               // sqlite 文件路径
		DSN             string `yaml:"-"`                                  // 不从配置文件读取，而是在加载后计算
		MaxOpenConns    int    `yaml:"max_open_conns" validate:"gte=0"`    // 最大打开连接数
		MaxIdleConns    int    `yaml:"max_idle_conns" validate:"gte=0"`    // 最大空闲连接数
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" validate:"gte=0"` // 连接最大生命周期（分钟）
	} `yaml:"database"`
	Engine struct {
		ThemeWindowDays       int     `yaml:"theme_window_days" validate:"gt=0"`
		ThemeSimilarity       float64 `yaml:"theme_similarity" validate:"gt=0,lte=1"` // 聚类相似度阈值（严格大于）
		ThemeMinSources       int     `yaml:"theme_min_sources" validate:"gt=0"`
		ThemeMaxClusters      int     `yaml:"theme_max_clusters" validate:"gt=0"`
		ThemeTTLDays          int     `yaml:"theme_ttl_days" validate:"gt=0"`
		DigestMaxItems        int     `yaml:"digest_max_items" validate:"gt=0"`
		DigestMaxPerSource    int     `yaml:"digest_max_per_source" validate:"gt=0"`
		DigestWindowHours     int     `yaml:"digest_window_hours" validate:"gt=0"`
		FeedWindowDays        int     `yaml:"feed_window_days" validate:"gt=0"`
		FeedLimit             int     `yaml:"feed_limit" validate:"gt=0"`
		SearchLimit           int     `yaml:"search_limit" validate:"gt=0"`
		SemanticWindowDays    int     `yaml:"semantic_window_days" validate:"gt=0"` // 语义检索扫描的内容时间范围
		SemanticMinSimilarity float64 `yaml:"semantic_min_similarity" validate:"gte=-1,lte=1"`
	} `yaml:"engine"`
	Cron struct {
		Concurrency int `yaml:"concurrency" validate:"gte=0"` // 主题检测/摘要生成并发数
		DigestHour  int `yaml:"digest_hour"`                  // 每天生成摘要的小时（0-23，UTC）
		DigestMin   int `yaml:"digest_min"`                   // 每天生成摘要的分钟（0-59）
		ThemeEveryH int `yaml:"theme_every_hours" validate:"gte=0"`
		SweepEveryM int `yaml:"sweep_every_minutes" validate:"gte=0"`
	} `yaml:"cron"`
	Events struct {
		Buffer int `yaml:"buffer" validate:"gte=0"` // 交互事件缓冲
	} `yaml:"events"`
	Debug struct {
		Enabled  bool `yaml:"enabled"`   // 是否启用debug模式
		TaskFreq int  `yaml:"task_freq"` // debug模式下批处理频率，单位：秒
	} `yaml:"debug"`
	Scheduler struct {
		CheckIntervalSec int `yaml:"check_interval_sec"` // 调度器检查间隔（秒）
		DefaultHour      int `yaml:"default_hour"`       // 默认执行小时
		DefaultMinute    int `yaml:"default_minute"`     // 默认执行分钟
	} `yaml:"scheduler"`
}

func Load() *Config {
	// 首先尝试加载.env文件中的环境变量
	_ = godotenv.Load() // 忽略错误，如果.env文件不存在，继续使用系统环境变量

	path := getenv("SPROUT_CONFIG", "config.yaml")

	var cfg Config

	// 尝试从config.yaml文件加载配置
	if data, err := os.ReadFile(path); err == nil {
		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			log.Printf("Error loading %s: %v, falling back to environment variables", path, err)
			return loadFromEnv()
		}
		log.Printf("Loading configuration from %s", path)

		applyEnvOverrides(&cfg)
		cfg.finalize()
		return &cfg
	}

	// 如果config.yaml不存在，则完全从环境变量加载配置
	return loadFromEnv()
}

// Parse 从YAML内容解析配置并补齐默认值
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.finalize()
	return &cfg, nil
}

func loadFromEnv() *Config {
	var cfg Config

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	cfg.DB.Driver = getenv("DB_DRIVER", "")
	cfg.DB.Path = getenv("DB_PATH", "")
	cfg.DB.DSN = os.Getenv("DB_DSN")

	applyEnvOverrides(&cfg)
	cfg.finalize()

	log.Println("配置从环境变量加载，部分配置可能缺失")
	return &cfg
}

// applyEnvOverrides 从环境变量中加载敏感信息
func applyEnvOverrides(cfg *Config) {
	if envUsername := os.Getenv("DATABASE_USERNAME"); envUsername != "" {
		cfg.DB.Username = envUsername
	}
	if envPassword := os.Getenv("DATABASE_PASSWORD"); envPassword != "" {
		cfg.DB.Password = envPassword
	}
	if envAPIKey := os.Getenv("SILICONFLOW_API_KEY"); envAPIKey != "" {
		cfg.SiliconFlow.APIKey = envAPIKey
	}
}

// finalize 补齐默认值并计算派生字段
func (cfg *Config) finalize() {
	cfg.applyDefaults()

	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.DB.DSN != "" {
		return
	}
	switch cfg.DB.Driver {
	case "sqlite":
		cfg.DB.DSN = cfg.DB.Path
	default:
		if cfg.DB.Host == "" {
			return
		}
		parseTime := ""
		if cfg.DB.ParseTime {
			parseTime = "&parseTime=true"
		}
		cfg.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
			cfg.DB.Username,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Database,
			cfg.DB.Charset,
			parseTime)
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "mysql"
	}
	if cfg.DB.Charset == "" {
		cfg.DB.Charset = "utf8mb4"
	}
	if cfg.DB.Driver == "sqlite" && cfg.DB.Path == "" {
		cfg.DB.Path = "sprout.db"
	}
	if cfg.SiliconFlow.BaseURL == "" {
		cfg.SiliconFlow.BaseURL = "https://api.siliconflow.cn"
	}
	if cfg.SiliconFlow.TimeoutSec == 0 {
		cfg.SiliconFlow.TimeoutSec = 30
	}

	e := &cfg.Engine
	if e.ThemeWindowDays == 0 {
		e.ThemeWindowDays = 7
	}
	if e.ThemeSimilarity == 0 {
		e.ThemeSimilarity = 0.8
	}
	if e.ThemeMinSources == 0 {
		e.ThemeMinSources = 3
	}
	if e.ThemeMaxClusters == 0 {
		e.ThemeMaxClusters = 5
	}
	if e.ThemeTTLDays == 0 {
		e.ThemeTTLDays = 7
	}
	if e.DigestMaxItems == 0 {
		e.DigestMaxItems = 10
	}
	if e.DigestMaxPerSource == 0 {
		e.DigestMaxPerSource = 2
	}
	if e.DigestWindowHours == 0 {
		e.DigestWindowHours = 24
	}
	if e.FeedWindowDays == 0 {
		e.FeedWindowDays = 7
	}
	if e.FeedLimit == 0 {
		e.FeedLimit = 50
	}
	if e.SearchLimit == 0 {
		e.SearchLimit = 20
	}
	if e.SemanticWindowDays == 0 {
		e.SemanticWindowDays = 30
	}

	if cfg.Cron.Concurrency == 0 {
		cfg.Cron.Concurrency = 10
	}
	if cfg.Cron.ThemeEveryH == 0 {
		cfg.Cron.ThemeEveryH = 6
	}
	if cfg.Cron.SweepEveryM == 0 {
		cfg.Cron.SweepEveryM = 60
	}
	if cfg.Events.Buffer == 0 {
		cfg.Events.Buffer = 1024
	}
	if cfg.Scheduler.CheckIntervalSec == 0 {
		cfg.Scheduler.CheckIntervalSec = 60
	}
}

// Validate 校验配置字段取值
func (cfg *Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
