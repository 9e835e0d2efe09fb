package listener

import (
	"net"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	logging "github.com/stagd/stagd/logging/zerolog_adapter"
	"github.com/stagd/stagd/metrics"
)

func TestListener(t *testing.T) {
	logger, _ := logging.GetLogger("listener")
	daemonMetrics := metrics.ConfigureDaemonMetrics(metrics.NewDummyRegistry())

	Convey("Listener should deliver datagrams and close its channel on stop", t, func() {
		listener, err := NewListener(0, logger, daemonMetrics)
		So(err, ShouldBeNil)
		datagramChan := listener.Listen()

		client, err := net.Dial("udp", listener.conn.LocalAddr().String())
		So(err, ShouldBeNil)
		defer client.Close()

		_, err = client.Write([]byte("gorets:1|c\nglork:320|ms"))
		So(err, ShouldBeNil)

		select {
		case datagram := <-datagramChan:
			So(string(datagram), ShouldEqual, "gorets:1|c\nglork:320|ms")
		case <-time.After(5 * time.Second):
			So("timed out waiting for datagram", ShouldBeEmpty)
		}
		So(daemonMetrics.PacketsReceived.Count(), ShouldEqual, 1)

		So(listener.Stop(), ShouldBeNil)
		_, open := <-datagramChan
		So(open, ShouldBeFalse)
	})

	Convey("A busy port is a bind error", t, func() {
		taken, err := net.ListenUDP("udp", &net.UDPAddr{})
		So(err, ShouldBeNil)
		defer taken.Close()

		_, err = NewListener(taken.LocalAddr().(*net.UDPAddr).Port, logger, daemonMetrics)
		So(err, ShouldNotBeNil)
	})
}
