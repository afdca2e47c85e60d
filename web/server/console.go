package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info" or "warning"
}

// Console fans render log messages out to every subscribed client
type Console struct {
	clients map[chan ConsoleMessage]bool
	lock    sync.Mutex
}

// NewConsole creates a console with no subscribers
func NewConsole() *Console {
	return &Console{clients: make(map[chan ConsoleMessage]bool)}
}

// Subscribe registers a new client channel holding up to buffer messages
func (c *Console) Subscribe(buffer int) chan ConsoleMessage {
	ch := make(chan ConsoleMessage, buffer)
	c.lock.Lock()
	c.clients[ch] = true
	c.lock.Unlock()
	return ch
}

// Unsubscribe removes and closes a client channel
func (c *Console) Unsubscribe(ch chan ConsoleMessage) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.clients[ch] {
		delete(c.clients, ch)
		close(ch)
	}
}

// Broadcast delivers msg to every client. Clients that cannot keep up are dropped.
func (c *Console) Broadcast(msg ConsoleMessage) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for ch := range c.clients {
		select {
		case ch <- msg:
		default:
			delete(c.clients, ch)
			close(ch)
		}
	}
}

// WebLogger implements core.Logger by echoing to stdout and broadcasting to the console
type WebLogger struct {
	renderID string
	console  *Console
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, console *Console) core.Logger {
	return &WebLogger{
		renderID: renderID,
		console:  console,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Print(message)

	if wl.console == nil {
		return
	}
	level := "info"
	if strings.HasPrefix(message, "Warning") {
		level = "warning"
	}
	wl.console.Broadcast(ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	})
}
