package graphite

import (
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/stagd/stagd"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// Config is the downstream backend connection configuration.
type Config struct {
	Host string
	Port int
	// MaxElapsedTime bounds one reconnect attempt sequence. Keep it below
	// the flush interval so a dead backend cannot stall the flush loop.
	MaxElapsedTime time.Duration
}

// Client delivers plaintext payloads to a Graphite relay over TCP,
// reconnecting with exponential backoff.
type Client struct {
	config  Config
	address string
	logger  stagd.Logger
	conn    net.Conn
}

// NewClient creates a client. The connection is established lazily on the
// first Send.
func NewClient(config Config, logger stagd.Logger) *Client {
	return &Client{
		config:  config,
		address: net.JoinHostPort(config.Host, fmt.Sprint(config.Port)),
		logger:  logger,
	}
}

// Send writes the payload to the backend. On write failure the connection
// is dropped and the error returned; the payload is not retried.
func (client *Client) Send(payload []byte) error {
	if err := client.connect(); err != nil {
		return fmt.Errorf("failed to connect to graphite %s: %w", client.address, err)
	}

	client.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout)) //nolint
	if _, err := client.conn.Write(payload); err != nil {
		client.disconnect()
		return fmt.Errorf("failed to send %d bytes to graphite %s: %w", len(payload), client.address, err)
	}
	return nil
}

// Close drops the backend connection.
func (client *Client) Close() error {
	if client.conn == nil {
		return nil
	}
	err := client.conn.Close()
	client.conn = nil
	return err
}

func (client *Client) connect() error {
	if client.conn != nil {
		return nil
	}

	backoffPolicy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxElapsedTime(client.config.MaxElapsedTime))

	return backoff.Retry(func() error {
		conn, err := net.DialTimeout("tcp", client.address, defaultDialTimeout)
		if err != nil {
			client.logger.Warning().
				Error(err).
				String("address", client.address).
				Msg("Graphite connection attempt failed")
			return err
		}
		client.conn = conn
		return nil
	}, backoffPolicy)
}

func (client *Client) disconnect() {
	if client.conn != nil {
		client.conn.Close() //nolint
		client.conn = nil
	}
}
