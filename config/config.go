package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/kelseyhightower/envconfig"
)

// EnvAppName is used as a prefix for environment variable
// names when using the LoadXFromEnv funcs.
// It defaults to empty.
var EnvAppName = ""

// ConsulPrefix marks a config source as a key in Consul's Key Value storage
// rather than a path on disk.
const ConsulPrefix = "consul:"

// LoadEnvConfig will use envconfig to load the
// given config struct from the environment.
// Any `default` tags on the struct will be applied
// for variables that are not set.
func LoadEnvConfig(c interface{}) {
	err := envconfig.Process(EnvAppName, c)
	if err != nil {
		log.Fatal("unable to load env variable: ", err)
	}
}

// LoadJSONFile is a helper function to read a config file into whatever
// config struct you need. Values found in the file will overwrite
// anything already populated in cfg, so it can be layered on top of
// LoadEnvConfig.
func LoadJSONFile(fileName string, cfg interface{}) {
	cb, err := os.ReadFile(fileName)
	if err != nil {
		log.Fatalf("Unable to read config file '%s': %s", fileName, err)
	}

	if err = json.Unmarshal(cb, cfg); err != nil {
		log.Fatalf("Unable to parse JSON in config file '%s': %s", fileName, err)
	}
}

// LoadJSONFromConsulKV is a helper function to read a JSON string found
// in a path defined by configKey inside Consul's Key Value storage then
// unmarshalled into a config struct, like LoadJSONFile does.
// It assumes that the Consul agent is running with the default setup,
// where the HTTP API is found via 127.0.0.1:8500.
func LoadJSONFromConsulKV(configKeyParameter string, cfg interface{}) {
	configKeyParameterValue := strings.SplitN(configKeyParameter, ":", 2)
	if len(configKeyParameterValue) < 2 || configKeyParameterValue[1] == "" {
		log.Fatalf("Undefined Consul KV configuration path. It should be defined using the format consul:path/to/JSON/string")
	}
	configKey := configKeyParameterValue[1]
	client, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		log.Fatalf("Unable to setup Consul client: %s", err)
	}
	kvPair, _, err := client.KV().Get(configKey, nil)
	if err != nil {
		log.Fatalf("Unable to read config in key '%s' from Consul KV: %s", configKey, err)
	}
	if kvPair == nil {
		log.Fatalf("Undefined key '%s' in Consul KV", configKey)
	}
	if len(kvPair.Value) == 0 {
		log.Fatalf("Empty JSON in Consul KV for key '%s'", configKey)
	}
	if err = json.Unmarshal(kvPair.Value, cfg); err != nil {
		log.Fatalf("Unable to parse JSON in Consul KV for key '%s': %s", configKey, err)
	}
}

// LoadSource will overlay the JSON found at source onto cfg.
// The value of source can be either the path to a JSON
// file or a path to a JSON string found in Consul's Key
// Value storage (using the format consul:path/to/JSON/string).
// An empty source leaves cfg untouched.
func LoadSource(source string, cfg interface{}) {
	switch {
	case source == "":
		return
	case strings.HasPrefix(source, ConsulPrefix):
		LoadJSONFromConsulKV(source, cfg)
	default:
		LoadJSONFile(source, cfg)
	}
}
