package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server     ServerConfig
	Classifier ClassifierConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	classifier, err := loadClassifierConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Classifier: classifier}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// loadServerConfig resolves the listen address.
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ClassifierConfig describes the remote support-classification service
// and the retry envelope used when calling it.
type ClassifierConfig struct {
	Endpoint    string
	MaxAttempts int
	BackoffBase time.Duration
	Timeout     time.Duration
}

func loadClassifierConfig() (ClassifierConfig, error) {
	endpoint := strings.TrimSpace(os.Getenv("CLASSIFIER_ENDPOINT"))
	if endpoint == "" {
		return ClassifierConfig{}, fmt.Errorf("CLASSIFIER_ENDPOINT is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return ClassifierConfig{}, fmt.Errorf("invalid CLASSIFIER_ENDPOINT %q: %w", endpoint, err)
	}

	maxAttempts := 3
	if override, err := parseOptionalIntEnv("CLASSIFIER_MAX_ATTEMPTS"); err != nil {
		return ClassifierConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ClassifierConfig{}, fmt.Errorf("CLASSIFIER_MAX_ATTEMPTS must be at least 1, got %d", *override)
		}
		maxAttempts = *override
	}

	backoffMs := 1000
	if override, err := parseOptionalIntEnv("CLASSIFIER_BACKOFF_MS"); err != nil {
		return ClassifierConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return ClassifierConfig{}, fmt.Errorf("CLASSIFIER_BACKOFF_MS must not be negative, got %d", *override)
		}
		backoffMs = *override
	}

	timeoutSeconds := 10
	if override, err := parseOptionalIntEnv("CLASSIFIER_TIMEOUT"); err != nil {
		return ClassifierConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ClassifierConfig{}, fmt.Errorf("CLASSIFIER_TIMEOUT must be at least 1 second, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return ClassifierConfig{
		Endpoint:    endpoint,
		MaxAttempts: maxAttempts,
		BackoffBase: time.Duration(backoffMs) * time.Millisecond,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
