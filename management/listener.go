package management

import (
	"fmt"
	"net"

	"gopkg.in/tomb.v2"

	"github.com/stagd/stagd"
)

// Listener accepts management console connections and hands each one to
// the Handler.
type Listener struct {
	listener net.Listener
	handler  *Handler
	logger   stagd.Logger
	tomb     tomb.Tomb
}

// NewListener binds the management TCP socket. A bind failure is returned
// to the caller and is fatal for the daemon.
func NewListener(port int, logger stagd.Logger, console *Console) (*Listener, error) {
	newListener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on tcp port %d: %w", port, err)
	}
	listener := Listener{
		listener: newListener,
		logger:   logger,
		handler:  NewConnectionsHandler(logger, console),
	}
	return &listener, nil
}

// Listen serves console connections until Stop. Connections are handled
// concurrently.
func (listener *Listener) Listen() {
	listener.tomb.Go(func() error {
		for {
			connection, err := listener.listener.Accept()
			if err != nil {
				select {
				case <-listener.tomb.Dying():
					listener.handler.tomb.Kill(nil)
					listener.handler.tomb.Wait() //nolint
					listener.logger.Info().Msg("Stagd management console stopped")
					return nil
				default:
					listener.logger.Warning().
						Error(err).
						Msg("Failed to accept management connection")
					continue
				}
			}
			listener.handler.tomb.Go(func() error {
				return listener.handler.HandleConnection(connection)
			})
		}
	})
	listener.logger.Info().
		String("address", listener.listener.Addr().String()).
		Msg("Stagd management console started")
}

// Stop closes the management socket and waits for active connections.
func (listener *Listener) Stop() error {
	listener.tomb.Kill(nil)
	listener.listener.Close()
	return listener.tomb.Wait()
}
