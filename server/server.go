package server

import (
	"net/http"
	stdrpc "net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/mazeserver/broadcast"
	"github.com/wfunc/mazeserver/config"
	"github.com/wfunc/mazeserver/coordinator"
	"github.com/wfunc/mazeserver/logger"
	"github.com/wfunc/mazeserver/monitor"
	"github.com/wfunc/mazeserver/network"
	"github.com/wfunc/mazeserver/persistence"
	"github.com/wfunc/mazeserver/room"
	mazerpc "github.com/wfunc/mazeserver/rpc"
	"github.com/wfunc/mazeserver/services"
	"github.com/wfunc/mazeserver/session"
	"github.com/wfunc/mazeserver/timer"
)

type GameServer struct {
	cfg          *config.Config
	upgrader     websocket.Upgrader
	registry     *room.Registry
	sessions     *session.Manager
	broadcaster  broadcast.Broadcaster
	records      *services.RunRecordService
	mon          *monitor.Monitor
	timers       *timer.Manager
	rpcServer    *mazerpc.Server
	shutdownChan chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		cfg:          cfg,
		registry:     room.NewRegistry(),
		sessions:     session.NewManager(),
		mon:          monitor.NewMonitor("mazeserver"),
		timers:       timer.NewManager(),
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.registry, s.sessions)
	s.records = services.NewRunRecordService(db, s.mon)

	// 周期任务: 空房间清扫 + 房间数指标
	s.timers.AddTimer(cfg.Game.SweepInterval, cfg.Game.SweepInterval, s.sweepRooms)
	s.timers.AddTimer(10*time.Second, 10*time.Second, func() {
		s.mon.SetLiveRooms(s.registry.Count())
	})

	rpcServer, err := mazerpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	directory := mazerpc.NewRoomDirectory(s.registry, s.sessions, s.records)
	stdrpc.Register(directory)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.mon.StartServer(s.cfg.Server.MonitorAddress)

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) sweepRooms() {
	if n := s.registry.Sweep(time.Now(), s.cfg.Game.RoomRetention); n > 0 {
		logger.Log.Infof("Swept %d stale empty rooms", n)
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessions.Add(sess)
	s.mon.IncPlayersOnline()

	coord := coordinator.New(sess, s.registry, s.broadcaster, s.records)

	logger.Log.Infof("Player connected: %s (%s)", sess.ID, wsConn.RemoteAddr())

	defer func() {
		coord.OnDisconnect()
		s.sessions.Remove(sess.ID)
		s.mon.DecPlayersOnline()
		wsConn.Close()
		logger.Log.Infof("Player disconnected: %s", sess.ID)
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			start := time.Now()
			coord.HandlePacket(packet)
			s.mon.IncEvents()
			s.mon.ObserveEventLatency(time.Since(start))
		}
	}
}
