package common

import "time"

// MongoDBConfig points the durable store (spec §3 "Persistence schema").
type MongoDBConfig struct {
	URI    string
	DBName string
}

// KafkaConfig configures the cross-process event relay used to replicate
// Socket Fan-out broadcasts across additional server replicas (spec §5).
type KafkaConfig struct {
	Brokers string
	Topic   string
	Group   string
}

// AMQPConfig points at the broker holding the retryable notification job
// queues (spec §4.H).
type AMQPConfig struct {
	URL string
}

// CatalogueConfig points at the external game-catalogue gRPC collaborator
// (spec §1, "Game catalogue ingestion ... out of scope").
type CatalogueConfig struct {
	Target  string
	Timeout time.Duration
}

// MatchmakingConfig holds the tunables named throughout spec §4.
type MatchmakingConfig struct {
	TickInterval       time.Duration
	RequestTTL         time.Duration
	MinGroupSize       int
	RelaxationLevel1At time.Duration
	RelaxationLevel2At time.Duration
	RelaxationLevel3At time.Duration
	AutoStartDelay     time.Duration
}

// Config aggregates every ambient configuration knob resolved from the
// environment at process start and injected via the IoC container.
type Config struct {
	HTTPPort    string
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	AMQP        AMQPConfig
	Catalogue   CatalogueConfig
	Matchmaking MatchmakingConfig
}

func DefaultMatchmakingConfig() MatchmakingConfig {
	return MatchmakingConfig{
		TickInterval:       5 * time.Second,
		RequestTTL:         30 * time.Minute,
		MinGroupSize:       2,
		RelaxationLevel1At: 30 * time.Second,
		RelaxationLevel2At: 90 * time.Second,
		RelaxationLevel3At: 180 * time.Second,
		AutoStartDelay:     5 * time.Second,
	}
}
