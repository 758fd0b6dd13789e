package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremqtt "github.com/tkaufmann/fossibot-cli/core/mqtt"
	"github.com/tkaufmann/fossibot-cli/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker                string      `json:"broker"`
	ClientID              string      `json:"client_id"`
	Username              string      `json:"username"`
	Password              string      `json:"password"`
	KeepAliveSeconds      int         `json:"keepalive_seconds"`
	ConnectTimeoutSeconds int         `json:"connect_timeout_seconds"`
	UseTLS                bool        `json:"use_tls"`
	ClientCert            string      `json:"client_cert"`
	ClientKey             string      `json:"client_key"`
	CABundle              string      `json:"ca_bundle"`
	TLSConfig             *tls.Config `json:"-"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Broker == "" {
		c.Broker = "tcp://localhost:1883"
	}
	if c.ClientID == "" {
		c.ClientID = "fossibot-cli"
	}
	if c.KeepAliveSeconds <= 0 {
		c.KeepAliveSeconds = 60
	}
	if c.ConnectTimeoutSeconds <= 0 {
		c.ConnectTimeoutSeconds = 5
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	if c.UseTLS && c.TLSConfig == nil {
		if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
			return fmt.Errorf("tls requires client_cert, client_key and ca_bundle")
		}
	}
	return nil
}

// pahoClient is the subset of the paho API the wrapper uses. Tests replace it
// through newMQTTClient.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoClient implements the core mqtt.Client interface using Eclipse Paho.
type PahoClient struct {
	raw pahoClient
	log logger.Logger
}

// NewPahoClient connects to the MQTT broker. The connection failure is
// returned to the caller; nothing retries beyond paho's own auto-reconnect
// once the first connect has succeeded.
func NewPahoClient(cfg Config) (*PahoClient, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_client")
	opts.OnConnect = func(paho.Client) {
		log.Infof("connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, token.Error())
	}
	return &PahoClient{raw: c, log: log}, nil
}

// NewClientOptions builds paho client options from Config. The client ID gets
// a random suffix so several sessions can share one configuration.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.NewString()[:8])
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetKeepAlive(time.Duration(cfg.KeepAliveSeconds) * time.Second).
		SetConnectTimeout(time.Duration(cfg.ConnectTimeoutSeconds) * time.Second)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Publish sends a message and waits for the broker acknowledgment according
// to the QoS level.
func (p *PahoClient) Publish(topic string, payload []byte, qos byte) error {
	if !p.raw.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	token := p.raw.Publish(topic, qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers a handler for the topic. The handler runs on paho's
// receive goroutine, independent of any foreground input loop.
func (p *PahoClient) Subscribe(topic string, qos byte, handler coremqtt.MessageHandler) error {
	if !p.raw.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	cb := func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	}
	token := p.raw.Subscribe(topic, qos, cb)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

// Disconnect gracefully closes the MQTT connection. It is safe to call on an
// already closed client.
func (p *PahoClient) Disconnect() {
	if p.raw != nil && p.raw.IsConnected() {
		p.raw.Disconnect(250)
		p.log.Infof("disconnected")
	}
}
