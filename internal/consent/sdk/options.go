package sdk

import (
	"fmt"
	"strings"

	dErrors "consentsync/pkg/domain-errors"
)

// LoggerLevel is the SDK's internal log verbosity.
type LoggerLevel string

const (
	LoggerLevelDebug LoggerLevel = "DEBUG"
	LoggerLevelInfo  LoggerLevel = "INFO"
	LoggerLevelWarn  LoggerLevel = "WARN"
	LoggerLevelError LoggerLevel = "ERROR"
)

// IsValid reports whether l is a recognised level.
func (l LoggerLevel) IsValid() bool {
	switch l {
	case LoggerLevelDebug, LoggerLevelInfo, LoggerLevelWarn, LoggerLevelError:
		return true
	}
	return false
}

// ParseLoggerLevel accepts any casing.
func ParseLoggerLevel(s string) (LoggerLevel, error) {
	l := LoggerLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("unknown logger level %q", s)
	}
	return l, nil
}

// Options is the SDK initialization record. Platforms differ only in the
// endpoint and app identifiers they supply.
type Options struct {
	AppURL                string      `yaml:"appURL" json:"appURL"`
	CdnURL                string      `yaml:"cdnURL" json:"cdnURL"`
	TenantID              string      `yaml:"tenantID" json:"tenantID"`
	AppID                 string      `yaml:"appID" json:"appID"`
	TestingMode           bool        `yaml:"testingMode" json:"testingMode"`
	LoggerLevel           LoggerLevel `yaml:"loggerLevel" json:"loggerLevel"`
	ConsentsCheckInterval int         `yaml:"consentsCheckInterval" json:"consentsCheckInterval"`
	SubjectID             string      `yaml:"subjectId" json:"subjectId"`
	LanguageCode          string      `yaml:"languageCode" json:"languageCode"`
	LocationCode          string      `yaml:"locationCode" json:"locationCode"`
}

// Validate checks the fields every SDK implementation relies on.
func (o Options) Validate() error {
	if strings.TrimSpace(o.TenantID) == "" {
		return dErrors.New(dErrors.CodeValidation, "tenantID is required")
	}
	if strings.TrimSpace(o.AppID) == "" {
		return dErrors.New(dErrors.CodeValidation, "appID is required")
	}
	if !o.LoggerLevel.IsValid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown loggerLevel %q", o.LoggerLevel))
	}
	if o.ConsentsCheckInterval <= 0 {
		return dErrors.New(dErrors.CodeValidation, "consentsCheckInterval must be positive")
	}
	return nil
}
