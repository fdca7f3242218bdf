// Package socket_io is the push transport: clients join a room per game code
// and receive the same broadcast payload the SSE stream carries. Engine.io's
// ping/pong is the keep-alive for this transport.
package socket_io

import (
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"

	game_constants "idoldraft/constants/game"
	"idoldraft/services/broadcast"
	"idoldraft/services/store"
	"idoldraft/utils"
)

type SocketServer struct {
	Sio_server *socket.Server

	store *store.GameStore
	hub   *broadcast.Hub

	// One hub subscription per room, refcounted by joined sockets
	mu    sync.Mutex
	rooms map[string]*roomBridge
}

type roomBridge struct {
	count       int
	unsubscribe func()
}

func New(gameStore *store.GameStore, hub *broadcast.Hub) *SocketServer {
	return &SocketServer{
		store: gameStore,
		hub:   hub,
		rooms: make(map[string]*roomBridge),
	}
}

func (sio *SocketServer) Start(router *gin.Engine) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	c.SetPingInterval(game_constants.KeepAliveInterval)
	c.SetPingTimeout(20 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		log.Printf("[SOCKET] client connected: %s", client.Id())

		// Codes this socket joined, for cleanup on disconnect
		joined := make(map[string]bool)
		var joinedMu sync.Mutex

		client.On("join_game", func(args ...interface{}) {
			if len(args) < 1 {
				client.Emit("error", gin.H{"error": "A game code is required to join."})
				return
			}
			code, ok := args[0].(string)
			if !ok {
				client.Emit("error", gin.H{"error": "A game code is required to join."})
				return
			}
			code = utils.NormalizeCode(code)

			initial, gameErr := sio.store.BuildUpdate(code)
			if gameErr != nil {
				client.Emit("error", gin.H{"code": gameErr.Code, "error": gameErr.Message})
				return
			}

			joinedMu.Lock()
			alreadyJoined := joined[code]
			joined[code] = true
			joinedMu.Unlock()

			client.Join(roomName(code))
			if !alreadyJoined {
				sio.retainRoom(code)
			}

			log.Printf("[SOCKET] %s joined room %s", client.Id(), code)
			client.Emit("game_joined", initial)
		})

		client.On("leave_game", func(args ...interface{}) {
			if len(args) < 1 {
				return
			}
			code, ok := args[0].(string)
			if !ok {
				return
			}
			code = utils.NormalizeCode(code)

			joinedMu.Lock()
			wasJoined := joined[code]
			delete(joined, code)
			joinedMu.Unlock()

			client.Leave(roomName(code))
			if wasJoined {
				sio.releaseRoom(code)
			}
		})

		client.On("disconnecting", func(args ...interface{}) {
			joinedMu.Lock()
			codes := make([]string, 0, len(joined))
			for code := range joined {
				codes = append(codes, code)
			}
			joined = make(map[string]bool)
			joinedMu.Unlock()

			for _, code := range codes {
				sio.releaseRoom(code)
			}
			log.Printf("[SOCKET] client disconnected: %s", client.Id())
		})
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}

// retainRoom attaches the hub bridge for a code the first time a socket
// joins its room.
func (sio *SocketServer) retainRoom(code string) {
	sio.mu.Lock()
	defer sio.mu.Unlock()

	bridge, ok := sio.rooms[code]
	if !ok {
		room := roomName(code)
		unsubscribe := sio.hub.Subscribe(code, func(update *broadcast.Update) {
			sio.Sio_server.To(room).Emit("game:update", update)
		})
		bridge = &roomBridge{unsubscribe: unsubscribe}
		sio.rooms[code] = bridge
	}
	bridge.count++
}

// releaseRoom drops the bridge once the last socket leaves the room.
func (sio *SocketServer) releaseRoom(code string) {
	sio.mu.Lock()
	defer sio.mu.Unlock()

	bridge, ok := sio.rooms[code]
	if !ok {
		return
	}
	bridge.count--
	if bridge.count <= 0 {
		bridge.unsubscribe()
		delete(sio.rooms, code)
	}
}

func roomName(code string) socket.Room {
	return socket.Room("game:" + code)
}
