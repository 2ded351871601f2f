package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	configFileBase = "check_in_config"
	dateLayout     = "2006-01-02"
)

// PlanningCenter holds the endpoints and transport settings for both Planning Center clients
type PlanningCenter struct {
	APIBaseURL        string  `yaml:"apiBaseURL,omitempty" validate:"omitempty,url"`
	LoginURL          string  `yaml:"loginURL,omitempty" validate:"omitempty,url"`
	CheckInsBaseURL   string  `yaml:"checkInsBaseURL,omitempty" validate:"omitempty,url"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty" validate:"gte=0"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds,omitempty" validate:"gte=0"`
	UserAgent         string  `yaml:"userAgent,omitempty"`
}

// Timeout returns the configured request timeout, zero meaning the client default
func (p PlanningCenter) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Job names a service, event and location to check volunteers in for, and optionally
// when it should run
type Job struct {
	Name          string `yaml:"name" validate:"required"`
	ServiceName   string `yaml:"serviceName" validate:"required"`
	EventName     string `yaml:"eventName" validate:"required"`
	LocationName  string `yaml:"locationName" validate:"required"`
	Schedule      string `yaml:"schedule,omitempty"`
	ScheduleStart string `yaml:"scheduleStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Config represents the application configuration
type Config struct {
	PlanningCenter     PlanningCenter `yaml:"planningCenter"`
	FuturePlanAttempts int            `yaml:"futurePlanAttempts,omitempty" validate:"gte=0"`
	Jobs               []Job          `yaml:"jobs,omitempty" validate:"unique=Name,dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from check_in_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="test" will look for "check_in_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, job := range cfg.Jobs {
		if job.Schedule == "" {
			continue
		}
		if _, err := rrule.StrToRRule(job.Schedule); err != nil {
			return fmt.Errorf("invalid rrule in jobs[%d] (%s): %w", i, job.Name, err)
		}
	}

	return nil
}

// Job returns the job with the given name
func (c *Config) Job(name string) (Job, bool) {
	for _, job := range c.Jobs {
		if job.Name == name {
			return job, true
		}
	}
	return Job{}, false
}

// DueJobs returns the scheduled jobs with an occurrence on the given day
func (c *Config) DueJobs(day time.Time) ([]Job, error) {
	var due []Job
	for _, job := range c.Jobs {
		ok, err := job.DueOn(day)
		if err != nil {
			return nil, err
		}
		if ok {
			due = append(due, job)
		}
	}
	return due, nil
}

// DueOn reports whether the job's schedule has an occurrence on the calendar day of day,
// in day's location. Jobs without a schedule are never due.
func (j Job) DueOn(day time.Time) (bool, error) {
	if j.Schedule == "" {
		return false, nil
	}

	opt, err := rrule.StrToROption(j.Schedule)
	if err != nil {
		return false, fmt.Errorf("invalid rrule for job %s: %w", j.Name, err)
	}

	loc := day.Location()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	if opt.Dtstart.IsZero() {
		if j.ScheduleStart != "" {
			start, err := time.ParseInLocation(dateLayout, j.ScheduleStart, loc)
			if err != nil {
				return false, fmt.Errorf("invalid scheduleStart for job %s: %w", j.Name, err)
			}
			opt.Dtstart = start
		} else {
			// Anchor far enough back that weekly and monthly rules line up with the calendar
			opt.Dtstart = time.Date(2000, time.January, 1, 0, 0, 0, 0, loc)
		}
	}

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return false, fmt.Errorf("invalid rrule for job %s: %w", j.Name, err)
	}

	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return len(rule.Between(dayStart, dayEnd, true)) > 0, nil
}

// findConfigFile searches for the config file in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "check_in_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := configFileBase + ".yaml"
	if env != "" {
		configFileName = configFileBase + "." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
