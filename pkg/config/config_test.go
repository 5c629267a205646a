package config

import "testing"

func TestParseDefaults(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "postgres://localhost/notifier")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MongoDatabase != "notifier" || cfg.WebsocketSendBuffer != 32 || cfg.NATSURL != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.IsProduction() {
		t.Errorf("IsProduction = true for development")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "postgres://db/notifier")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("WS_SEND_BUFFER", "8")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "9000" || !cfg.IsProduction() || cfg.NATSURL != "nats://nats:4222" || cfg.WebsocketSendBuffer != 8 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing postgres", map[string]string{"POSTGRES_CONN_STR": "", "MONGO_URI": "mongodb://x"}},
		{"missing mongo", map[string]string{"POSTGRES_CONN_STR": "postgres://x", "MONGO_URI": ""}},
		{"zero buffer", map[string]string{"POSTGRES_CONN_STR": "postgres://x", "MONGO_URI": "mongodb://x", "WS_SEND_BUFFER": "0"}},
		{"bad buffer", map[string]string{"POSTGRES_CONN_STR": "postgres://x", "MONGO_URI": "mongodb://x", "WS_SEND_BUFFER": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Parse(); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}
}
