package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
)

// Client описывает часть клиента paho, нужную для публикации.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher публикует события азана в топик <prefix>/<prayer>.
type Publisher struct {
	client Client
	prefix string
	qos    byte
}

// Connect подключается к брокеру и возвращает клиент.
func Connect(broker, clientID string, logger zerolog.Logger) (paho.Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(paho.Client) {
		logger.Info().Str("broker", broker).Msg("mqtt: подключение установлено")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Warn().Err(err).Msg("mqtt: соединение потеряно")
	}

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("подключение к MQTT %s: %w", broker, token.Error())
	}
	return client, nil
}

// NewPublisher создаёт публикатор. Пустой префикс означает hilal/adhan.
func NewPublisher(client Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = "hilal/adhan"
	}
	return &Publisher{client: client, prefix: prefix, qos: 1}
}

// Name возвращает имя приёмника.
func (p *Publisher) Name() string { return "mqtt" }

// Topic возвращает топик для намаза.
func (p *Publisher) Topic(prayer domain.Prayer) string {
	return p.prefix + "/" + prayer.String()
}

// Publish отправляет событие и ждёт подтверждения брокера.
func (p *Publisher) Publish(ctx context.Context, event domain.AdhanEvent) (err error) {
	start := time.Now()
	topic := p.Topic(event.Prayer)
	defer func() {
		metrics.ObserveNetworkRequest("mqtt", "publish", topic, start, err)
	}()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("кодирование события: %w", err)
	}
	token := p.client.Publish(topic, p.qos, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("публикация в %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("публикация в %s: %w", topic, ctx.Err())
	}
}
