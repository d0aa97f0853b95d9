// rpc/rpc.go
package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/mazeserver/logger"
	"github.com/wfunc/mazeserver/room"
	"github.com/wfunc/mazeserver/services"
	"github.com/wfunc/mazeserver/session"
)

// Server manages the RPC listener for ops tooling.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// RoomDirectory 对运维侧暴露房间目录与统计.
type RoomDirectory struct {
	registry *room.Registry
	sessions *session.Manager
	records  *services.RunRecordService
}

func NewRoomDirectory(registry *room.Registry, sessions *session.Manager, records *services.RunRecordService) *RoomDirectory {
	return &RoomDirectory{
		registry: registry,
		sessions: sessions,
		records:  records,
	}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Rooms []room.ListEntry
}

// ListRooms returns the joinable-room list, same view the lobby gets.
func (d *RoomDirectory) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	reply.Rooms = d.registry.ListJoinable()
	return nil
}

type StatsArgs struct{}

type StatsReply struct {
	Rooms    int
	Sessions int
	Runs     map[string]interface{}
}

// Stats returns registry and run-archive counters.
func (d *RoomDirectory) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.Rooms = d.registry.Count()
	reply.Sessions = d.sessions.Count()

	runs, err := d.records.Stats()
	if err != nil {
		return err
	}
	reply.Runs = runs
	return nil
}
