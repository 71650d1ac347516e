// Package mqtt connects the bot to an MQTT broker. It answers the
// request/response calls of the dashboard and carries the bot event feed.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	requestPrefix  = "companion/request/"
	responsePrefix = "companion/response/"

	connectWait = 5 * time.Second
)

// ErrNotConnected is returned by publishes while the broker is unreachable.
var ErrNotConnected = errors.Sentinel("cliente MQTT no conectado")

// Request is the envelope of a call received on companion/request/<topic>.
type Request struct {
	CorrelationID string          `json:"correlationId"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// Response is published on companion/response/<topic>/<correlationId>.
type Response struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// RequestHandler answers a request. The payload always carries "_topic".
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// Options configure the broker connection.
type Options struct {
	Host     string
	Port     string
	Username string
	Password string
	ClientID string
}

// OptionsFromConfig reads the broker settings. Non production instances use a
// separate client id so both can share a broker.
func OptionsFromConfig(cfg *config.Config) Options {
	id := "companionbot"
	if !cfg.IsProd() {
		id = "companionbot_canary"
	}
	return Options{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		Username: cfg.MQTTUser,
		Password: cfg.MQTTPassword,
		ClientID: id,
	}
}

// Client wraps a paho client. Subscriptions are remembered and restored on
// every (re)connect, so they can be made before the broker is reachable.
type Client struct {
	client paho.Client
	id     string

	mu     sync.Mutex
	routes map[string]paho.MessageHandler
}

var (
	client *Client
	once   sync.Once
)

// Init initializes the global client
func Init(opts Options) *Client {
	once.Do(func() {
		client = NewClient(opts)
	})
	return client
}

// Get returns the global client
func Get() *Client {
	return client
}

// NewClient connects to the broker. An absent broker does not block startup;
// paho keeps retrying in the background.
func NewClient(opts Options) *Client {
	c := &Client{
		id:     opts.ClientID,
		routes: make(map[string]paho.MessageHandler),
	}

	po := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", opts.Host, opts.Port)).
		SetClientID(fmt.Sprintf("%s_%s", opts.ClientID, uuid.New().String())).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	c.client = paho.NewClient(po)

	token := c.client.Connect()
	if !token.WaitTimeout(connectWait) {
		logger.Warn("Broker MQTT no disponible, se seguirá reintentando en segundo plano", "MQTT")
	} else if token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}
	return c
}

func (c *Client) onConnect(pc paho.Client) {
	logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", c.id), "MQTT")

	c.mu.Lock()
	routes := make(map[string]paho.MessageHandler, len(c.routes))
	for topic, h := range c.routes {
		routes[topic] = h
	}
	c.mu.Unlock()

	for topic, h := range routes {
		if token := pc.Subscribe(topic, 0, h); token.Wait() && token.Error() != nil {
			logger.Error(fmt.Sprintf("Error suscribiendo a %s: %v", topic, token.Error()), "MQTT")
		}
	}
}

// Close disconnects from the broker
func (c *Client) Close() {
	if !c.IsConnected() {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
		return
	}
	c.client.Disconnect(250)
	logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
}

// IsConnected returns true if connected to the broker
func (c *Client) IsConnected() bool {
	return c != nil && c.client != nil && c.client.IsConnected()
}

// Publish sends payload as JSON
func (c *Client) Publish(topic string, payload interface{}) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapIf(err, "serializando mensaje MQTT")
	}

	token := c.client.Publish(topic, 0, false, data)
	token.Wait()
	return token.Error()
}

// route records a subscription and applies it right away when connected.
func (c *Client) route(topic string, h paho.MessageHandler) error {
	c.mu.Lock()
	c.routes[topic] = h
	c.mu.Unlock()

	if !c.IsConnected() {
		return nil
	}
	token := c.client.Subscribe(topic, 0, h)
	token.Wait()
	return token.Error()
}

// Subscribe delivers raw messages of topic (wildcards allowed) to handler
func (c *Client) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	return c.route(topic, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
}

// Handle answers requests published on companion/request/<topic>.
func (c *Client) Handle(topic string, handler RequestHandler) {
	full := requestPrefix + topic
	err := c.route(full, func(_ paho.Client, msg paho.Message) {
		replyTo, resp, err := answer(msg.Topic(), msg.Payload(), handler)
		if err != nil {
			logger.Error(fmt.Sprintf("Petición MQTT inválida en %s: %v", msg.Topic(), err), "MQTT")
			return
		}
		if err := c.Publish(replyTo, resp); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo responder en %s: %v", replyTo, err), "MQTT")
		}
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", full, err), "MQTT")
	}
}

// answer runs handler on a raw request and builds the response and the topic
// it goes to.
func answer(topic string, raw []byte, handler RequestHandler) (string, Response, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return "", Response{}, err
	}
	if req.CorrelationID == "" {
		return "", Response{}, errors.New("falta correlationId")
	}

	name := strings.TrimPrefix(topic, requestPrefix)
	payload := make(map[string]interface{})
	if len(req.Payload) > 0 {
		// anything that is not an object is ignored
		_ = json.Unmarshal(req.Payload, &payload)
		if payload == nil {
			payload = make(map[string]interface{})
		}
	}
	payload["_topic"] = name

	resp := Response{CorrelationID: req.CorrelationID}
	data, err := handler(payload)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Data = data
	}
	return fmt.Sprintf("%s%s/%s", responsePrefix, name, req.CorrelationID), resp, nil
}

// topicMatch checks if a received topic matches a pattern.
// '+' matches exactly one level, '#' matches the remaining levels.
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}
	return len(patternParts) == len(topicParts)
}
