package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/john-thuo1/sentiment/internal/transport/ws"
)

// Client represents a WebSocket chat client.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	done      chan struct{}
}

// NewClient connects to addr and binds the connection to sessionID.
func NewClient(addr, sessionID string) (*Client, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse addr: %w", err)
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return &Client{
		conn:      conn,
		sessionID: sessionID,
		done:      make(chan struct{}),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	close(c.done)
	return c.conn.Close()
}

// SendAsk sends a follow-up question.
func (c *Client) SendAsk(content string) error {
	msg := ws.AskMessage{
		BaseMessage: ws.BaseMessage{
			Type:      ws.TypeAsk,
			Ts:        time.Now().UnixMilli(),
			SessionID: c.sessionID,
			RequestID: fmt.Sprintf("req_%d", time.Now().UnixNano()),
		},
		Content: content,
	}
	return c.conn.WriteJSON(msg)
}

// ReadMessages prints server messages to w until the connection closes.
func (c *Client) ReadMessages(w io.Writer) {
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("Read error: %v", err)
				}
				return
			}
			fmt.Fprintln(w, formatServerMessage(data))
		}
	}
}

// formatServerMessage renders one server frame for the terminal.
func formatServerMessage(data []byte) string {
	var base ws.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return "[invalid] " + string(data)
	}

	switch base.Type {
	case ws.TypeMessage:
		var msg ws.TranscriptMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return "[invalid] " + string(data)
		}
		return fmt.Sprintf("\n[%s]\n%s", msg.Message.Role, msg.Message.Content)
	case ws.TypeError:
		var msg ws.ErrorMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return "[invalid] " + string(data)
		}
		return fmt.Sprintf("\n[error] %s: %s", msg.Code, msg.Message)
	default:
		return fmt.Sprintf("\n[%s] %s", base.Type, string(data))
	}
}

func runChatCmd(args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	addr := fs.String("addr", "ws://localhost:8080/ws", "WebSocket server address")
	sessionID := fs.String("session", "", "Session ID with a generated recommendation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sessionID == "" {
		return fmt.Errorf("--session is required")
	}

	fmt.Printf("Connecting to %s...\n", *addr)

	client, err := NewClient(*addr, *sessionID)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("Session: %s\n", *sessionID)
	fmt.Println("\nAsk a question about the recommendation and press Enter.")
	fmt.Println("Commands: /quit to exit")

	go client.ReadMessages(os.Stdout)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		select {
		case <-interrupt:
			fmt.Println("\nInterrupted")
			return nil
		default:
			if !scanner.Scan() {
				return nil
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "/quit" {
				fmt.Println("Bye!")
				return nil
			}

			if err := client.SendAsk(input); err != nil {
				log.Printf("Send error: %v", err)
			}
		}
	}
}
