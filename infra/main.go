package infra

import (
	"log"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/infra/produce"
)

type Infra struct {
	Postgres  *PostgresClient
	Redis     *RedisClient
	Logger    *LoggerClient
	Telemetry *TelemetryClient
	RabbitMQ  *RabbitMQClient
	Primary   *PrimaryClient
	Overflow  *OverflowClient
	Produce   *produce.Produce
}

var infra *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infra != nil {
		return infra
	}

	env := cfg.EnvConfig

	overflow, err := NewOverflowClient(env)
	if err != nil {
		log.Printf("Warning: overflow store disabled: %v (uploads will use the primary store)", err)
		overflow = nil
	}

	rabbitmq := InitRabbitMQClient(env)

	infra = &Infra{
		Postgres:  InitPostgresClient(env),
		Redis:     InitRedisClient(env),
		Logger:    InitLoggerClient(env),
		Telemetry: InitTelemetry(env),
		RabbitMQ:  rabbitmq,
		Primary:   InitPrimaryClient(env),
		Overflow:  overflow,
		Produce:   produce.InitProduce(rabbitmq.Channel),
	}
	return infra
}

func GetInfra() *Infra {
	return infra
}
