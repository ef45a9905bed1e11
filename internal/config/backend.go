package config

import (
	"fmt"
	"strconv"
	"strings"
)

// BackendConfig holds the POS account and endpoints the suite runs against
type BackendConfig struct {
	ClientCode    string
	Username      string
	Password      string
	WarehouseID   string
	BaseURL       string
	APIURL        string
	PIMURL        string
	Location      string
	PIN           string
	SessionLength int
}

// LoadBackendConfig loads backend configuration from environment variables
func LoadBackendConfig(getenv func(string) string) (*BackendConfig, error) {
	config := &BackendConfig{
		ClientCode:  valueOrDefault(getenv("POS_CLIENT_CODE"), "545455"),
		Username:    getenv("POS_USERNAME"),
		Password:    getenv("POS_PASSWORD"),
		WarehouseID: valueOrDefault(getenv("POS_WAREHOUSE_ID"), "1"),
		BaseURL:     valueOrDefault(getenv("POS_BASE_URL"), "https://epos.erply.com/latest/"),
		APIURL:      getenv("POS_API_URL"),
		PIMURL:      valueOrDefault(getenv("POS_PIM_URL"), "https://api-pim-us.erply.com"),
		Location:    valueOrDefault(getenv("POS_LOCATION"), "Location #1"),
		PIN:         valueOrDefault(getenv("POS_PIN"), "112233"),
	}

	// Validate required fields
	if config.Username == "" {
		return nil, fmt.Errorf("POS_USERNAME is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("POS_PASSWORD is required")
	}
	if config.APIURL == "" {
		config.APIURL = fmt.Sprintf("https://%s.erply.com/api", config.ClientCode)
	}
	config.PIMURL = strings.TrimRight(config.PIMURL, "/")

	sessionLength, err := intOrDefault(getenv("POS_SESSION_LENGTH"), 86400)
	if err != nil {
		return nil, fmt.Errorf("POS_SESSION_LENGTH: %w", err)
	}
	if sessionLength <= 0 {
		return nil, fmt.Errorf("POS_SESSION_LENGTH must be positive")
	}
	config.SessionLength = sessionLength

	return config, nil
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func intOrDefault(value string, defaultValue int) (int, error) {
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
}

// parseIDs parses a comma separated list of positive integers
func parseIDs(value string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one id is required")
	}
	return ids, nil
}
