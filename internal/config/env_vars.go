package config

type EnvConfig interface {
	GetEnv() string
	GetAppName() string
	GetLogLevel() string
}

type EnvVars struct {
	Env      string `yaml:"env" env:"ENV" env-default:"DEV"`
	AppName  string `yaml:"app_name" env:"APP_NAME" env-default:"Studio Portal"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetEnv() string {
	return e.Env
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}
