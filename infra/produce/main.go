package produce

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

type Produce struct {
	Material *MaterialProduceService
}

func InitProduce(channel *amqp.Channel) *Produce {
	return &Produce{
		Material: InitMaterialProduceService(channel),
	}
}
