// Package queue contains the background consumer that listens to the
// booking.confirmed queue and hands each event to the notification
// dispatcher (invoice + confirmation email).
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const bookingQueueName = "booking.confirmed"

// Handler processes one decoded confirmation event.  The notification
// dispatcher satisfies this; tests can substitute a function.
type Handler interface {
	Deliver(ev BookingConfirmedEvent) error
}

// StartBookingConsumer connects to RabbitMQ, declares the durable
// booking.confirmed queue, and starts consuming messages.  Each message
// is decoded and passed to the handler.  The function runs a reconnect
// loop with exponential backoff and keeps running indefinitely;
// processing errors are logged and the message is acked anyway, because
// notifications are advisory and a poison message must not wedge the
// queue.  Malformed messages are rejected without requeue.
func StartBookingConsumer(url string, h Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, h); err != nil {
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			// Sleep briefly before reconnect
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, h Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(bookingQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(bookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var ev BookingConfirmedEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("booking-consumer: unmarshal failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		if err := h.Deliver(ev); err != nil {
			log.Printf("booking-consumer: deliver booking %d failed: %v", ev.BookingID, err)
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}
