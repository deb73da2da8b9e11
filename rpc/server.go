// Package rpc exposes the allocator over a loopback net/rpc connection.
//
// The core allocator has no locking of its own (see the package doc on
// memalloc): every exported method here takes a single coarse mutex
// before touching it, and releases it before returning. That is the only
// lock around the allocator in this module.
package rpc

import (
	"fmt"
	"net"
	"net/rpc"
	"sync"
	"unsafe"

	"github.com/shenjiangwei/memalloc"
)

// Server represents the allocator RPC service.
type Server struct {
	mu       sync.Mutex
	listener net.Listener
}

// AllocRequest requests size bytes of memory.
type AllocRequest struct {
	Size uint64
}

// AllocResponse carries back the allocated pointer, encoded as its raw
// address. Callers on the same machine only; there is no serialization
// of the pointed-to memory across a network boundary.
type AllocResponse struct {
	Addr  uintptr
	Error string
}

// FreeRequest frees the block at Addr.
type FreeRequest struct {
	Addr uintptr
}

// FreeResponse carries back any error from freeing.
type FreeResponse struct {
	Error string
}

// ResizeRequest resizes the block at Addr to Size bytes.
type ResizeRequest struct {
	Addr uintptr
	Size uint64
}

// ResizeResponse carries back the resized block's address.
type ResizeResponse struct {
	Addr  uintptr
	Error string
}

// NewServer creates a new allocator RPC service.
func NewServer() (*Server, error) {
	server := &Server{}
	if err := rpc.Register(server); err != nil {
		return nil, fmt.Errorf("failed to register server: %v", err)
	}
	return server, nil
}

// Start starts the server on the specified address and serves until
// Close is called.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}
	s.listener = listener

	for {
		conn, err := listener.Accept()
		if err != nil {
			return nil
		}
		go rpc.ServeConn(conn)
	}
}

func (s *Server) Allocate(req *AllocRequest, resp *AllocResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ptr := memalloc.Allocate(req.Size)
	if ptr == nil {
		resp.Error = "out of memory"
		return nil
	}
	resp.Addr = uintptr(ptr)
	return nil
}

func (s *Server) Free(req *FreeRequest, resp *FreeResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memalloc.Free(unsafe.Pointer(req.Addr)) //nolint:govet
	return nil
}

func (s *Server) Resize(req *ResizeRequest, resp *ResizeResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ptr := memalloc.Resize(unsafe.Pointer(req.Addr), req.Size) //nolint:govet
	if ptr == nil {
		resp.Error = "out of memory"
		return nil
	}
	resp.Addr = uintptr(ptr)
	return nil
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
