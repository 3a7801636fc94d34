package grpcprofile

import (
	"errors"
	"net"
	"sync"

	"google.golang.org/grpc"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const (
	originServerBuilder = "grpc.server_builder"
	networkTCP          = "tcp"

	EventAddListeningPort = "AddListeningPort"
	EventNewServer        = "NewServer"
	EventRegisterService  = "RegisterService"
	EventStart            = "Start"
)

var ErrNoListener = errors.New("no listening port added")
var ErrServerAlreadyBuilt = errors.New("server already built")
var ErrNilServiceImplementation = errors.New("nil service implementation supplied")

type serviceRegistration struct {
	desc *grpc.ServiceDesc
	impl any
}

// ServerBuilder brings up a gRPC server and records every step: binding the listener, creating the
// server with its stream worker pool, registering each service and starting to serve.
type ServerBuilder struct {
	stopwatch     profiler.Stopwatch
	listener      net.Listener
	streamWorkers uint32
	serverOptions []grpc.ServerOption
	services      []serviceRegistration
	built         bool
}

// BuilderOption defines a functional option for configuring ServerBuilder.
type BuilderOption func(*ServerBuilder) error

// WithStreamWorkers sets the number of stream workers, see grpc.NumStreamWorkers.
// Zero keeps the gRPC default of one goroutine per stream.
func WithStreamWorkers(workers uint32) BuilderOption {
	return func(b *ServerBuilder) error {
		b.streamWorkers = workers
		return nil
	}
}

// WithServerOptions appends options passed to grpc.NewServer.
func WithServerOptions(options ...grpc.ServerOption) BuilderOption {
	return func(b *ServerBuilder) error {
		b.serverOptions = append(b.serverOptions, options...)
		return nil
	}
}

// WithListener uses an already bound listener instead of AddListeningPort, e.g. a bufconn.Listener.
func WithListener(listener net.Listener) BuilderOption {
	return func(b *ServerBuilder) error {
		b.listener = listener
		return nil
	}
}

// NewServerBuilder creates a ServerBuilder that records into the stopwatch's Recorder.
func NewServerBuilder(stopwatch profiler.Stopwatch, options ...BuilderOption) (*ServerBuilder, error) {
	b := &ServerBuilder{stopwatch: stopwatch}

	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// AddListeningPort binds a TCP listener to address, e.g. "127.0.0.1:0".
func (b *ServerBuilder) AddListeningPort(address string) error {
	op := profiler.Op(EventAddListeningPort, originServerBuilder).WithDescription(address)

	listener, err := profiler.Measure(b.stopwatch, op, func() (net.Listener, error) {
		return net.Listen(networkTCP, address)
	})
	if err != nil {
		return err
	}

	b.listener = listener

	return nil
}

// RegisterService queues a service for registration when the server is built.
func (b *ServerBuilder) RegisterService(desc *grpc.ServiceDesc, impl any) error {
	if impl == nil {
		return ErrNilServiceImplementation
	}

	b.services = append(b.services, serviceRegistration{desc: desc, impl: impl})

	return nil
}

// BuildAndStart creates the server, registers the queued services and starts serving in the background.
func (b *ServerBuilder) BuildAndStart() (*Server, error) {
	if b.built {
		return nil, ErrServerAlreadyBuilt
	}

	if b.listener == nil {
		return nil, ErrNoListener
	}

	b.built = true

	options := b.serverOptions
	if b.streamWorkers > 0 {
		options = append(options, grpc.NumStreamWorkers(b.streamWorkers))
	}

	stopNewServer := b.stopwatch.Start(profiler.Op(EventNewServer, originServerBuilder))
	grpcServer := grpc.NewServer(options...)
	stopNewServer()

	for _, service := range b.services {
		stopRegister := b.stopwatch.Start(
			profiler.Op(EventRegisterService, originServerBuilder).WithDescription(service.desc.ServiceName),
		)
		grpcServer.RegisterService(service.desc, service.impl)
		stopRegister()
	}

	server := &Server{grpcServer: grpcServer, listener: b.listener}

	stopStart := b.stopwatch.Start(profiler.Op(EventStart, originServerBuilder).WithDescription(b.listener.Addr().String()))
	server.serve()
	stopStart()

	return server, nil
}

// Server is a running gRPC server created by a ServerBuilder.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	wg         sync.WaitGroup
	serveErr   error
}

func (s *Server) serve() {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.serveErr = err
		}
	}()
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// GRPCServer returns the underlying grpc.Server.
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpcServer
}

// Shutdown stops the server gracefully and returns the serve error, if any.
func (s *Server) Shutdown() error {
	s.grpcServer.GracefulStop()
	s.wg.Wait()

	return s.serveErr
}
