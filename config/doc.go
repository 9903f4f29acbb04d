/*
Package config contains helpers for loading the streamtap programs'
configuration.

Config structs declare their environment variables and defaults with
envconfig tags and are loaded with LoadEnvConfig. A JSON document, either a
file on disk or a key in Consul's Key Value storage, can then be layered on
top with LoadSource. The '-log' and '-config' command line flags are handled
by SetFlagOverrides.

The config/aws sub-package holds AWS credentials and endpoint settings and
config/metrics holds the go-kit metrics provider settings.
*/
package config
