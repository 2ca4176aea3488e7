package mqttlite

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsBroker serves one WebSocket connection and hands it to handler.
func wsBroker(t *testing.T, handler func(*websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{Subprotocols: []string{WebSocketSubprotocol}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultWSPath {
			http.NotFound(w, r)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http") + DefaultWSPath
}

func TestWSConnReadWrite(t *testing.T) {
	url := wsBroker(t, func(conn *websocket.Conn) {
		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.WriteMessage(messageType, data)
		}
	})

	conn, err := NewWSDialer().Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, WebSocketSubprotocol, conn.(*WSConn).conn.Subprotocol())
	assert.NotNil(t, conn.LocalAddr())
	assert.NotNil(t, conn.RemoteAddr())

	packet := []byte{0x30, 0x05, 0x00, 0x01, 't', 'h', 'i'}
	n, err := conn.Write(packet)
	require.NoError(t, err)
	assert.Equal(t, len(packet), n)

	frame, err := ReadFrame(bufio.NewReader(conn))
	require.NoError(t, err)
	assert.Equal(t, packet, frame)
}

func TestWSConnMessageBoundaries(t *testing.T) {
	url := wsBroker(t, func(conn *websocket.Conn) {
		// One packet split over two messages, then two packets in one message.
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0x90, 0x03, 0x00})
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x00})
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0xD0, 0x00, 0x30, 0x03, 0x00, 0x01, 'x'})
		_, _, _ = conn.ReadMessage()
	})

	conn, err := NewWSDialer().Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)

	frame, err := ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x90, 0x03, 0x00, 0x01, 0x00}, frame)

	frame, err = ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD0, 0x00}, frame)

	frame, err = ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, PacketPUBLISH, TypeOf(frame[0]))
}

func TestWSConnRejectsTextMessages(t *testing.T) {
	url := wsBroker(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("hello"))
		_, _, _ = conn.ReadMessage()
	})

	conn, err := NewWSDialer().Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Read(make([]byte, 16))
	assert.ErrorIs(t, err, ErrProtocolError)
}

func TestWSConnDeadlines(t *testing.T) {
	url := wsBroker(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
	})

	conn, err := NewWSDialer().Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetWriteDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.SetDeadline(time.Now().Add(50*time.Millisecond)))

	_, err = conn.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestWSDialerErrors(t *testing.T) {
	t.Run("wrong path", func(t *testing.T) {
		url := wsBroker(t, func(*websocket.Conn) {})

		_, err := NewWSDialer().Dial(context.Background(), strings.TrimSuffix(url, DefaultWSPath)+"/other")
		assert.Error(t, err)
	})

	t.Run("nil dialer uses default", func(t *testing.T) {
		url := wsBroker(t, func(conn *websocket.Conn) {
			_, _, _ = conn.ReadMessage()
		})

		conn, err := (&WSDialer{}).Dial(context.Background(), url)
		require.NoError(t, err)
		conn.Close()
	})
}
