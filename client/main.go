package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	msgTypeCreateRoom        = 101
	msgTypeJoinRoom          = 102
	msgTypeGetRoomList       = 103
	msgTypePlayerUpdate      = 201
	msgTypeTerminalActivated = 202
	msgTypeExitActivated     = 203
	msgTypeChatMessage       = 205
)

// send frames a message the way the server expects: msg ID, length, JSON.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func sendJSON(c *websocket.Conn, msgID uint16, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return send(c, msgID, data)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:3000", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	log.Println("Commands: create [name] | join CODE [name] | list | move X Y Z | terminal N | exit | say TEXT")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			line, _ := reader.ReadString('\n')
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "create":
				name := ""
				if len(fields) > 1 {
					name = fields[1]
				}
				err = sendJSON(c, msgTypeCreateRoom, map[string]string{"name": name})
			case "join":
				if len(fields) < 2 {
					log.Println("Usage: join CODE [name]")
					continue
				}
				req := map[string]string{"roomCode": fields[1]}
				if len(fields) > 2 {
					req["name"] = fields[2]
				}
				err = sendJSON(c, msgTypeJoinRoom, req)
			case "list":
				err = send(c, msgTypeGetRoomList, nil)
			case "move":
				if len(fields) != 4 {
					log.Println("Usage: move X Y Z")
					continue
				}
				var pos [3]float64
				for i := 0; i < 3; i++ {
					pos[i], _ = strconv.ParseFloat(fields[i+1], 64)
				}
				err = sendJSON(c, msgTypePlayerUpdate, map[string]any{"position": pos})
			case "terminal":
				if len(fields) != 2 {
					log.Println("Usage: terminal N")
					continue
				}
				n, _ := strconv.Atoi(fields[1])
				err = sendJSON(c, msgTypeTerminalActivated, map[string]int{"terminalIndex": n})
			case "exit":
				err = send(c, msgTypeExitActivated, nil)
			case "say":
				err = sendJSON(c, msgTypeChatMessage, map[string]string{"message": strings.TrimSpace(strings.TrimPrefix(line, "say"))})
			default:
				log.Printf("Unknown command: %s", fields[0])
				continue
			}

			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
