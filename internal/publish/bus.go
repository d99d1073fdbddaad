package publish

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"edgedevice/internal/config"
	"edgedevice/internal/logger"
)

// Transport is the pub-sub capability the pipeline writes to.
type Transport interface {
	Connect() error
	Publish(topic string, payload interface{}) error
	Disconnect()
}

const connectTimeout = 5 * time.Second

// MQTTBus maintains a broker connection. The paho client runs its own
// background delivery loop; the pipeline only hands payloads to it.
type MQTTBus struct {
	host     string
	port     int
	clientID string
	log      *logger.Logger

	client mqtt.Client

	mu        sync.RWMutex
	connected bool
}

func NewMQTTBus(cfg *config.Config, log *logger.Logger) *MQTTBus {
	return &MQTTBus{
		host:     cfg.BrokerHost,
		port:     cfg.BrokerPort,
		clientID: cfg.ClientID,
		log:      log,
	}
}

// Connect establishes the broker connection. Failure here is fatal to
// startup; once connected, paho auto-reconnects on its own.
func (b *MQTTBus) Connect() error {
	broker := fmt.Sprintf("tcp://%s:%d", b.host, b.port)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(b.clientID)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		b.setConnected(true)
		b.log.Info("MQTT connected to %s", broker)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		b.setConnected(false)
		b.log.Warning("MQTT connection lost, waiting for auto-reconnect: %v", err)
	}

	b.client = mqtt.NewClient(opts)

	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}

	b.setConnected(true)
	return nil
}

// Publish hands the payload to the broker at QoS 0. Fire-and-forget: the
// pipeline never blocks waiting for delivery acknowledgement.
func (b *MQTTBus) Publish(topic string, payload interface{}) error {
	if !b.isConnected() {
		return fmt.Errorf("mqtt not connected")
	}
	b.client.Publish(topic, 0, false, payload)
	return nil
}

// Disconnect flushes and closes the broker connection.
func (b *MQTTBus) Disconnect() {
	if b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(250)
		b.log.Info("MQTT disconnected")
	}
	b.setConnected(false)
}

func (b *MQTTBus) setConnected(v bool) {
	b.mu.Lock()
	b.connected = v
	b.mu.Unlock()
}

func (b *MQTTBus) isConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}
