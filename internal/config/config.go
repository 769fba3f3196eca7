package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Business BusinessConfig `mapstructure:"business"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite / mysql
	Path         string `mapstructure:"path"`   // sqlite 数据文件路径
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogMode      bool   `mapstructure:"log_mode"`
}

type BusinessConfig struct {
	// PurgeHistoryOnClose 销户时是否级联删除流水
	// 默认 false：保留流水用于审计
	PurgeHistoryOnClose bool `mapstructure:"purge_history_on_close"`
	// AccountNoMaxRetry 账户号碰撞时的最大重试次数
	AccountNoMaxRetry int `mapstructure:"account_no_max_retry"`
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	if config.Business.AccountNoMaxRetry <= 0 {
		config.Business.AccountNoMaxRetry = 5
	}

	GlobalConfig = config
	return config
}
