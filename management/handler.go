package management

import (
	"bufio"
	"io"
	"net"

	"gopkg.in/tomb.v2"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/protocol"
)

// Handler serves one management connection: reads command lines, writes
// responses.
type Handler struct {
	logger  stagd.Logger
	console *Console
	tomb    tomb.Tomb
}

// NewConnectionsHandler creates a new Handler.
func NewConnectionsHandler(logger stagd.Logger, console *Console) *Handler {
	handler := &Handler{
		logger:  logger,
		console: console,
	}
	// Console connections are short-lived. The tomb must outlive the gaps
	// between them, so hold it open until the listener kills it.
	handler.tomb.Go(func() error {
		<-handler.tomb.Dying()
		return nil
	})
	return handler
}

// HandleConnection executes commands from the connection until quit, EOF
// or shutdown.
func (handler *Handler) HandleConnection(connection net.Conn) error {
	buffer := bufio.NewReader(connection)
	defer connection.Close()

	// A reader blocked on an idle console client would never observe the
	// kill, so the watcher closes the connection to unblock it.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-handler.tomb.Dying():
			connection.Close()
		case <-done:
		}
	}()

	for {
		lineBytes, err := buffer.ReadBytes('\n')
		if err != nil {
			if err != io.EOF && !handler.dying() {
				handler.logger.Debug().
					Error(err).
					Msg("Management connection read failed")
			}
			return nil
		}

		response, quit := handler.console.Execute(string(protocol.DropCRLF(lineBytes)))
		if len(response) > 0 {
			if _, err := connection.Write([]byte(response)); err != nil {
				handler.logger.Debug().
					Error(err).
					Msg("Management connection write failed")
				return nil
			}
		}
		if quit {
			return nil
		}
	}
}

func (handler *Handler) dying() bool {
	select {
	case <-handler.tomb.Dying():
		return true
	default:
		return false
	}
}
