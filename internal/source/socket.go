package source

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/noseratio/evbridge/internal/bridge"
)

// Message is one websocket message. When the payload is JSON, Desc carries
// its "desc" field so consumers get a human-readable description without
// re-parsing.
type Message struct {
	Desc string
	Data []byte
}

// Socket emits every message read from a websocket endpoint.
type Socket struct {
	url    string
	dialer *websocket.Dialer
}

// NewSocket creates a source reading from the given ws:// or wss:// URL.
func NewSocket(url string) *Socket {
	return &Socket{
		url:    url,
		dialer: websocket.DefaultDialer,
	}
}

// Attach dials the endpoint and starts a read loop that invokes handler once
// per received message. The loop ends when the peer closes the connection or
// the source is detached. The returned detach closes the connection, which
// unblocks the pending read, and waits for the loop to exit.
func (s *Socket) Attach(handler func(Message)) (bridge.DetachFunc, error) {
	if s.url == "" {
		return nil, ErrEmptyURL
	}

	conn, _, err := s.dialer.Dial(s.url, nil) //nolint:bodyclose // success response carries no body
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			handler(Message{
				Desc: gjson.GetBytes(data, "desc").String(),
				Data: data,
			})
		}
	}()

	return func() error {
		err := conn.Close()
		wg.Wait()
		return err
	}, nil
}
