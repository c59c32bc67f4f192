package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of upstream call being made.
type TaskType string

const (
	TaskBreakdown  TaskType = "breakdown"
	TaskRefine     TaskType = "refine"
	TaskChat       TaskType = "chat"
	TaskMotivation TaskType = "motivation"
)

// TaskConfig holds per-task completion parameters. Zero values are omitted
// from the request so the server default applies.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the completion client.
type LLMConfig struct {
	LogCalls   bool
	Endpoint   string
	APIKey     string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig targets a local OpenAI-compatible endpoint.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		LogCalls:   false,
		Endpoint:   "http://localhost:11434/v1/chat/completions",
		Model:      "gpt-oss-120b",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskBreakdown:  {TimeoutMs: 60000},
			TaskRefine:     {TimeoutMs: 60000},
			TaskChat:       {TimeoutMs: 30000},
			TaskMotivation: {Temperature: 1.0, MaxTokens: 60, TimeoutMs: 8000},
		},
	}
}

// LoadConfig reads configuration from environment variables,
// falling back to defaults for any unset or invalid values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("TASKTAMER_AI_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKTAMER_AI_API_URL"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TASKTAMER_AI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TASKTAMER_AI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TASKTAMER_AI_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TASKTAMER_AI_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskBreakdown, "TASKTAMER_AI_BREAKDOWN_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskRefine, "TASKTAMER_AI_REFINE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskChat, "TASKTAMER_AI_CHAT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskMotivation, "TASKTAMER_AI_MOTIVATION_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective per-attempt timeout for a task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
