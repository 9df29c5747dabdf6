package config

type config struct {
	Server   server   `yaml:"server" mapstructure:"server"`
	Mysql    mysql    `yaml:"mysql" mapstructure:"mysql"`
	Redis    redis    `yaml:"redis" mapstructure:"redis"`
	Minio    minio    `yaml:"minio" mapstructure:"minio"`
	RabbitMq rabbitmq `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Jwt      jwt      `yaml:"jwt" mapstructure:"jwt"`
	Jaeger   jaeger   `yaml:"jaeger" mapstructure:"jaeger"`
	Sentinel sentinel `yaml:"sentinel" mapstructure:"sentinel"`
}

type server struct {
	Addr         string   `yaml:"addr"`
	PprofAddr    string   `yaml:"pprof_addr" mapstructure:"pprof_addr"`
	MaxUploadMB  int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
	Params   string `yaml:"params"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type minio struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	Bucket          string `yaml:"bucket"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type jwt struct {
	Secret      string `yaml:"secret"`
	TimeoutHour int    `yaml:"timeout_hour" mapstructure:"timeout_hour"`
}

type jaeger struct {
	ServiceName string  `yaml:"service_name" mapstructure:"service_name"`
	AgentAddr   string  `yaml:"agent_addr" mapstructure:"agent_addr"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

type sentinel struct {
	WriteQPS float64 `yaml:"write_qps" mapstructure:"write_qps"`
}
