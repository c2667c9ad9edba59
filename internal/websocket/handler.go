package websocket

import (
	"sync"
)

// ServeWs runs one session connection until the peer goes away. It blocks, so
// the fiber websocket handler keeps the connection open while it runs.
func ServeWs(hub *Hub, conn Conn, sessionID, remoteAddr string) {
	client := newClient(hub, conn, sessionID, remoteAddr)
	if !hub.attach(client) {
		_ = conn.Close()
		return
	}

	var wg sync.WaitGroup
	for _, worker := range []func(){client.writePump, client.poseWorker, client.chatWorker, client.biosignalWorker} {
		wg.Add(1)
		go func(run func()) {
			defer wg.Done()
			run()
		}(worker)
	}

	client.readPump()
	client.shutdown()
	wg.Wait()
	hub.detach(client)
}
