package listener

import (
	"fmt"
	"net"

	"gopkg.in/tomb.v2"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/metrics"
)

const maxDatagramSize = 65536

// MetricsListener reads metric sample datagrams from a UDP socket and
// hands them to the aggregation workers over a channel.
type MetricsListener struct {
	conn    *net.UDPConn
	logger  stagd.Logger
	metrics *metrics.DaemonMetrics
	tomb    tomb.Tomb
}

// NewListener binds the UDP ingestion socket. A bind failure is returned
// to the caller and is fatal for the daemon.
func NewListener(port int, logger stagd.Logger, daemonMetrics *metrics.DaemonMetrics) (*MetricsListener, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to listen on udp port %d: %w", port, err)
	}
	listener := MetricsListener{
		conn:    conn,
		logger:  logger,
		metrics: daemonMetrics,
	}
	return &listener, nil
}

// Listen starts the read loop. Every received datagram is copied and sent
// to the returned channel; the channel is closed on Stop.
func (listener *MetricsListener) Listen() chan []byte {
	datagramChan := make(chan []byte, 4096)
	listener.tomb.Go(func() error {
		buffer := make([]byte, maxDatagramSize)
		for {
			n, _, err := listener.conn.ReadFromUDP(buffer)
			if err != nil {
				select {
				case <-listener.tomb.Dying():
					listener.logger.Info().Msg("Stagd UDP listener stopped")
					close(datagramChan)
					return nil
				default:
					listener.logger.Warning().
						Error(err).
						Msg("Failed to read datagram")
					continue
				}
			}
			if n == 0 {
				continue
			}
			listener.metrics.PacketsReceived.Inc()
			datagram := make([]byte, n)
			copy(datagram, buffer[:n])
			datagramChan <- datagram
		}
	})
	listener.logger.Info().
		String("address", listener.conn.LocalAddr().String()).
		Msg("Stagd UDP listener started")
	return datagramChan
}

// Stop closes the socket and waits for the read loop to finish.
func (listener *MetricsListener) Stop() error {
	listener.tomb.Kill(nil)
	listener.conn.Close()
	return listener.tomb.Wait()
}
