package config

import "testing"

func TestLoadIncludesTrafficAndProcessingDefaults(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("API_RATE_LIMIT_BURST", "")
	t.Setenv("API_MAX_IN_FLIGHT", "")
	t.Setenv("API_BACKPRESSURE_WAIT_MS", "")
	t.Setenv("PROCESS_TIMEOUT_SECONDS", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.APIRateLimitRPS != 50 {
		t.Fatalf("expected default rate limit 50 rps, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 100 {
		t.Fatalf("expected default burst 100, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.APIMaxInFlight != 256 {
		t.Fatalf("expected default max in flight 256, got %d", cfg.APIMaxInFlight)
	}
	if cfg.APIBackpressureWaitMS != 100 {
		t.Fatalf("expected default backpressure wait 100ms, got %d", cfg.APIBackpressureWaitMS)
	}
	if cfg.ProcessTimeoutSeconds != 180 {
		t.Fatalf("expected default process timeout 180s, got %d", cfg.ProcessTimeoutSeconds)
	}
	if cfg.NATSSubject != "documents.uploaded" {
		t.Fatalf("expected default subject documents.uploaded, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_MAX_IN_FLIGHT", "8")
	t.Setenv("OLLAMA_MODEL", "llama3.2:3b")

	cfg := Load()
	if cfg.APIPort != "9999" {
		t.Fatalf("expected port override, got %q", cfg.APIPort)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIMaxInFlight != 8 {
		t.Fatalf("expected max in flight 8, got %d", cfg.APIMaxInFlight)
	}
	if cfg.OllamaModel != "llama3.2:3b" {
		t.Fatalf("expected model override, got %q", cfg.OllamaModel)
	}
}

func TestLoadFallsBackOnUnparsableNumbers(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("PROCESS_TIMEOUT_SECONDS", "soon")

	cfg := Load()
	if cfg.APIRateLimitBurst != 100 {
		t.Fatalf("expected fallback burst 100, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.ProcessTimeoutSeconds != 180 {
		t.Fatalf("expected fallback timeout 180, got %d", cfg.ProcessTimeoutSeconds)
	}
}
