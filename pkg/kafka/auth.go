package kafka

import (
	"crypto/tls"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// saslMechanism resolves the configured SASL mechanism, or nil when SASL is off.
func saslMechanism(cfg Config) (sasl.Mechanism, error) {
	if !cfg.SASLEnabled {
		return nil, nil
	}

	switch cfg.SASLMechanism {
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.SASLUsername, cfg.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
	case "PLAIN", "":
		return plain.Mechanism{
			Username: cfg.SASLUsername,
			Password: cfg.SASLPassword,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism %q", cfg.SASLMechanism)
	}
}

func tlsConfig(cfg Config) *tls.Config {
	if !cfg.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// transport builds the writer transport for TLS and SASL.
func transport(cfg Config) (*kafkago.Transport, error) {
	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}
	return &kafkago.Transport{
		ClientID: cfg.ClientID,
		TLS:      tlsConfig(cfg),
		SASL:     mechanism,
	}, nil
}

// dialer builds the reader dialer for TLS and SASL.
func dialer(cfg Config) (*kafkago.Dialer, error) {
	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}
	return &kafkago.Dialer{
		ClientID:      cfg.ClientID,
		DualStack:     true,
		TLS:           tlsConfig(cfg),
		SASLMechanism: mechanism,
	}, nil
}
