package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"mshe/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
}

func NewServer(addr string, upgrader websocket.Upgrader) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
	}
}

// 每条连接一个 Hub，对应一台独立配置的换热器
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	hub := NewHub()
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("err: ", err)
		return
	}
	defer conn.Close()
	// 连接断开时通知两个处理协程退出
	defer close(hub.done)
	hub.conn = conn
	go hub.handleRequest()
	go hub.handleResponse()
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("err: ", err)
			break
		}
		hub.msg <- msg
	}
}

func (s *Server) Serve() {
	http.HandleFunc("/ws", s.serveWs)
	log.Println("listening on ", s.addr)
	if err := http.ListenAndServe(s.addr, nil); err != nil {
		log.Fatal("err: ", err)
	}
}
