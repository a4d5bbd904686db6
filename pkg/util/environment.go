package util

import (
	"os"
	"strings"
)

const EnvironmentPrefix = "GLOBALTRACK_"

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)
		if len(pair) != 2 {
			continue
		}

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// PrefixedEnvironment returns the non empty GLOBALTRACK_* variables keyed without the prefix
func PrefixedEnvironment() map[string]string {
	prefixed := map[string]string{}

	for key, value := range GetEnvironmentVariables() {
		if value == "" || !strings.HasPrefix(key, EnvironmentPrefix) {
			continue
		}
		prefixed[strings.TrimPrefix(key, EnvironmentPrefix)] = value
	}

	return prefixed
}
