package signal

// Inbound event vocabulary. dispatch switches over exactly this set.
const (
	evRegister   = "register"
	evIsOnline   = "isOnline"
	evCallUser   = "callUser"
	evAnswerCall = "answerCall"
	evRejectCall = "rejectCall"
	evEndCall    = "endCall"
	evPing       = "ping"
)

// Outbound events.
const (
	evIsOnlineResponse  = "isOnlineResponse"
	evAck               = "ack"
	evIncomingCall      = "incomingCall"
	evCalleeUnavailable = "calleeUnavailable"
	evCallAccepted      = "callAccepted"
	evCallRejected      = "callRejected"
	evCallEnded         = "callEnded"
	evPong              = "pong"
)
