package env_utils

type EnvMode string

const (
	EnvModeDevelopment EnvMode = "development"
	EnvModeProduction  EnvMode = "production"
)

func (m EnvMode) IsValid() bool {
	return m == EnvModeDevelopment || m == EnvModeProduction
}
