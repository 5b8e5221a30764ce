// cmd/worker/main.go
package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/theruads/fleet-backend/internal/config"
	"github.com/theruads/fleet-backend/internal/db"
	"github.com/theruads/fleet-backend/internal/queue"
	"github.com/theruads/fleet-backend/internal/repository"
)

// The worker folds impression events into the impression_daily aggregate.
// The impressions table written by the server is the source of truth; this
// materialization only serves dashboard reads.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	impressionRepo := &repository.ImpressionRepository{DB: conn}

	amqpConn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.TopicImpressions, // name
		true,                   // durable
		false,                  // delete when unused
		false,                  // exclusive
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var event queue.ImpressionEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Println("Invalid event:", err)
				d.Ack(false)
				continue
			}

			if err := impressionRepo.UpsertDaily(event.AdID, event.PlayedAt, 1); err != nil {
				log.Println("Failed to update daily aggregate:", err)
				// Retry logic: requeue up to 3 times
				var retryCount int
				if v, ok := d.Headers["x-retry-count"].(int); ok {
					retryCount = v
				}
				if retryCount < 3 {
					d.Nack(false, true) // requeue
					continue
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("Worker running, waiting for impression events...")
	<-forever
}
