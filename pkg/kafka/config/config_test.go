package kafka_config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("Brokers = %v, want [%s]", cfg.Brokers, DefaultKafkaBrokers)
	}
	if cfg.BookingEventsTopic != DefaultBookingEventsTopic {
		t.Errorf("BookingEventsTopic = %q", cfg.BookingEventsTopic)
	}
	if cfg.ConsumerRetryBackoff != DefaultConsumerRetryBackoff {
		t.Errorf("ConsumerRetryBackoff = %s", cfg.ConsumerRetryBackoff)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " k1:9092, ,k2:9092 ")
	t.Setenv(EnvKafkaConsumerRetryBackoff, "1s")
	t.Setenv(EnvKafkaWalletEventsTopic, "wallet")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[1] != "k2:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
	if cfg.ConsumerRetryBackoff != time.Second {
		t.Errorf("ConsumerRetryBackoff = %s", cfg.ConsumerRetryBackoff)
	}
	if cfg.WalletEventsTopic != "wallet" {
		t.Errorf("WalletEventsTopic = %q", cfg.WalletEventsTopic)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no brokers", mutate: func(c *Config) { c.Brokers = nil }, wantErr: true},
		{name: "bad compression", mutate: func(c *Config) { c.ProducerCompression = "brotli" }, wantErr: true},
		{name: "bad acks", mutate: func(c *Config) { c.ProducerRequireAcks = 2 }, wantErr: true},
		{name: "bad offset", mutate: func(c *Config) { c.ConsumerStartOffset = 5 }, wantErr: true},
		{name: "missing topic", mutate: func(c *Config) { c.WalletEventsTopic = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
