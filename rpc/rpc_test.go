package rpc

import (
	"testing"
	"time"
)

const serverAddress = "localhost:12347"

func TestRPCClientServer(t *testing.T) {
	server, err := NewServer()
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		if err := server.Start(serverAddress); err != nil {
			t.Errorf("Server error: %v", err)
		}
	}()
	defer server.Close()

	time.Sleep(100 * time.Millisecond)

	numClients := 5
	clients := make([]*Client, numClients)
	for i := 0; i < numClients; i++ {
		client, err := NewClient(i, serverAddress)
		if err != nil {
			t.Fatalf("Failed to create client %d: %v", i, err)
		}
		clients[i] = client
		defer client.Close()
	}

	done := make(chan bool)
	for i, client := range clients {
		go func(id int, c *Client) {
			addr, err := c.Allocate(64 * 1024)
			if err != nil {
				t.Errorf("Client %d allocation failed: %v", id, err)
				done <- true
				return
			}

			addr, err = c.Resize(addr, 2048)
			if err != nil {
				t.Errorf("Client %d resize failed: %v", id, err)
			}

			if err := c.Free(addr); err != nil {
				t.Errorf("Client %d free failed: %v", id, err)
			}

			done <- true
		}(i, client)
	}

	for i := 0; i < numClients; i++ {
		<-done
	}
}
