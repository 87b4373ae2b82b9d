package main

import (
	"net/http"

	"github.com/gorilla/websocket"
	"gopkg.in/ini.v1"

	"mshe/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	addr := ":9000"
	if file, err := ini.Load("conf/config.ini"); err == nil {
		addr = file.Section("server").Key("Addr").MustString(addr)
	}
	s := server.NewServer(addr, upgrader)
	s.Serve()
}
