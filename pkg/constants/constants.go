package constants

const (
	AppName      = "triage"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "TRIAGE"
)
