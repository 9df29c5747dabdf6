package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.pprof_addr", "")
	v.SetDefault("server.max_upload_mb", 500)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("mysql.addr", "127.0.0.1:3306")
	v.SetDefault("mysql.database", "univideo")
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("mysql.params", "parseTime=True&loc=Local")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("minio.endpoint", "127.0.0.1:9000")
	v.SetDefault("minio.access_key_id", "minioadmin")
	v.SetDefault("minio.secret_access_key", "minioadmin")
	v.SetDefault("minio.bucket", "univideo")

	v.SetDefault("rabbitmq.addr", "127.0.0.1:5672")
	v.SetDefault("rabbitmq.username", "guest")
	v.SetDefault("rabbitmq.password", "guest")

	v.SetDefault("jwt.secret", "univideo-secret")
	v.SetDefault("jwt.timeout_hour", 24)

	v.SetDefault("jaeger.service_name", "univideo-api")
	v.SetDefault("jaeger.agent_addr", "127.0.0.1:6831")
	v.SetDefault("jaeger.sample_rate", 1.0)

	v.SetDefault("sentinel.write_qps", 100)
}

// Init 读取 config.yml，找不到文件时使用默认值，环境变量 UNIVIDEO_* 覆盖文件内容
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config.yml")

	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, using defaults: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
	} else {
		logrus.Infof("Successfully read config file: %s", v.ConfigFileUsed())
	}

	ConfigInfo = load(v)

	logrus.Infof("Config loaded - MySQL: %s:%s@%s/%s",
		ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
}

func load(v *viper.Viper) config {
	setDefaults(v)
	v.SetEnvPrefix("UNIVIDEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c config
	// 手动从viper获取配置值，AutomaticEnv 对 Unmarshal 不生效
	c.Server.Addr = v.GetString("server.addr")
	c.Server.PprofAddr = v.GetString("server.pprof_addr")
	c.Server.MaxUploadMB = v.GetInt("server.max_upload_mb")
	c.Server.AllowOrigins = v.GetStringSlice("server.allow_origins")

	c.Mysql.Addr = v.GetString("mysql.addr")
	c.Mysql.Database = v.GetString("mysql.database")
	c.Mysql.Username = v.GetString("mysql.username")
	c.Mysql.Password = v.GetString("mysql.password")
	c.Mysql.Charset = v.GetString("mysql.charset")
	c.Mysql.Params = v.GetString("mysql.params")

	c.Redis.Addr = v.GetString("redis.addr")
	c.Redis.Password = v.GetString("redis.password")
	c.Redis.DB = v.GetInt("redis.db")

	c.Minio.Endpoint = v.GetString("minio.endpoint")
	c.Minio.AccessKeyID = v.GetString("minio.access_key_id")
	c.Minio.SecretAccessKey = v.GetString("minio.secret_access_key")
	c.Minio.UseSSL = v.GetBool("minio.use_ssl")
	c.Minio.Bucket = v.GetString("minio.bucket")

	c.RabbitMq.Addr = v.GetString("rabbitmq.addr")
	c.RabbitMq.Username = v.GetString("rabbitmq.username")
	c.RabbitMq.Password = v.GetString("rabbitmq.password")

	c.Jwt.Secret = v.GetString("jwt.secret")
	c.Jwt.TimeoutHour = v.GetInt("jwt.timeout_hour")

	c.Jaeger.ServiceName = v.GetString("jaeger.service_name")
	c.Jaeger.AgentAddr = v.GetString("jaeger.agent_addr")
	c.Jaeger.SampleRate = v.GetFloat64("jaeger.sample_rate")

	c.Sentinel.WriteQPS = v.GetFloat64("sentinel.write_qps")
	return c
}

// MysqlDSN 按 go-sql-driver 的格式拼接连接串
func (c config) MysqlDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&%s",
		c.Mysql.Username, c.Mysql.Password, c.Mysql.Addr, c.Mysql.Database, c.Mysql.Charset, c.Mysql.Params)
}

func (c config) RabbitMqURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s/", c.RabbitMq.Username, c.RabbitMq.Password, c.RabbitMq.Addr)
}
