package signal

func (ctl *Controller) handlePing(conn *wsConn) {
	resp := struct {
		Event string `json:"event"`
	}{
		Event: evPong,
	}
	ctl.sendJSON(conn, resp)
}
