package config

import "flag"

// SetFlagOverrides will check the '-log' and '-config' command line flags
// and override the given string pointers if they are set.
// If '-log' is set to "dev", the given log var will be set to "" to
// signal stderr logging.
func SetFlagOverrides(log, config *string) {
	logCLI := flag.String("log", "", "Application log location")
	configCLI := flag.String("config", "", "JSON config file path or consul:path/to/key")

	flag.Parse()

	if *logCLI != "" {
		*log = *logCLI
		if *logCLI == "dev" {
			*log = ""
		}
	}
	if *configCLI != "" {
		*config = *configCLI
	}
}
