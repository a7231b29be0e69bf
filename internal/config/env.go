package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func requireEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("%s env variable is not set", key)
	}
	return value, nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	value, ok := os.LookupEnv(key)
	return ok && value != "" && value != "0" && value != "false"
}

// envList splits a comma separated value, dropping empty items.
func envList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func envInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s env variable must be an integer: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s env variable must be a duration: %w", key, err)
	}
	return d, nil
}

// readSecret returns the value of key, or the trimmed contents of the file
// named by key+"_FILE".
func readSecret(key string) ([]byte, error) {
	if value, ok := os.LookupEnv(key); ok {
		return []byte(value), nil
	}
	path, ok := os.LookupEnv(key + "_FILE")
	if !ok {
		return nil, fmt.Errorf("no %s or %s_FILE env variable set", key, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s_FILE: %w", key, err)
	}
	return data, nil
}
