package rpc

import (
	"fmt"
	"net/rpc"
	"sync"
)

// Client is a connection to an allocator RPC service.
type Client struct {
	id        int
	client    *rpc.Client
	allocated map[uintptr]uint64 // addr -> size
	mu        sync.Mutex
}

// NewClient connects to an allocator RPC service at address.
func NewClient(id int, address string) (*Client, error) {
	client, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %v", err)
	}

	return &Client{
		id:        id,
		client:    client,
		allocated: make(map[uintptr]uint64),
	}, nil
}

// Allocate allocates memory through the server.
func (c *Client) Allocate(size uint64) (uintptr, error) {
	req := &AllocRequest{Size: size}
	resp := &AllocResponse{}

	if err := c.client.Call("Server.Allocate", req, resp); err != nil {
		return 0, fmt.Errorf("RPC call failed: %v", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("server error: %s", resp.Error)
	}

	c.mu.Lock()
	c.allocated[resp.Addr] = size
	c.mu.Unlock()

	return resp.Addr, nil
}

// Free frees memory through the server.
func (c *Client) Free(addr uintptr) error {
	req := &FreeRequest{Addr: addr}
	resp := &FreeResponse{}

	if err := c.client.Call("Server.Free", req, resp); err != nil {
		return fmt.Errorf("RPC call failed: %v", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("server error: %s", resp.Error)
	}

	c.mu.Lock()
	delete(c.allocated, addr)
	c.mu.Unlock()

	return nil
}

// Resize resizes the block at addr through the server.
func (c *Client) Resize(addr uintptr, size uint64) (uintptr, error) {
	req := &ResizeRequest{Addr: addr, Size: size}
	resp := &ResizeResponse{}

	if err := c.client.Call("Server.Resize", req, resp); err != nil {
		return 0, fmt.Errorf("RPC call failed: %v", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("server error: %s", resp.Error)
	}

	c.mu.Lock()
	delete(c.allocated, addr)
	c.allocated[resp.Addr] = size
	c.mu.Unlock()

	return resp.Addr, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.client.Close()
}
