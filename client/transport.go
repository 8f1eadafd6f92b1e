package client

import (
	"context"
	"errors"
	"sync"

	"github.com/pion/webrtc/v4"
)

// Initiator reports whether handle a should open the connection request when
// both peers decide to dial each other at the same time. The coordinator
// accepts both directions; the lexicographically lower handle dials and the
// other side waits for the incoming request.
func Initiator(a, b string) bool {
	return a < b
}

// Transport turns exchanged offer/answer payloads into an open data channel.
// The coordinator treats the payloads as opaque; this implementation uses
// WebRTC session descriptions.
type Transport struct {
	pc   *webrtc.PeerConnection
	open chan struct{}

	mu       sync.Mutex
	dc       *webrtc.DataChannel
	openOnce sync.Once
}

// NewTransport creates a peer connection using the given STUN/TURN servers.
// Pass nil for a host-candidates-only connection (LAN or tests).
func NewTransport(iceServers []webrtc.ICEServer) (*Transport, error) {
	pc, err := webrtc.NewAPI().NewPeerConnection(webrtc.Configuration{
		ICEServers: iceServers,
	})
	if err != nil {
		return nil, err
	}

	t := &Transport{pc: pc, open: make(chan struct{})}

	// The responder side receives the channel the initiator created.
	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		t.adopt(dc)
	})

	return t, nil
}

func (t *Transport) adopt(dc *webrtc.DataChannel) {
	t.mu.Lock()
	t.dc = dc
	t.mu.Unlock()
	dc.OnOpen(func() {
		t.openOnce.Do(func() { close(t.open) })
	})
}

// CreateOffer prepares the initiator side: it opens the data channel and
// returns the complete local description. Candidate gathering finishes before
// the offer is returned, so no trickle path is needed through the
// coordinator.
func (t *Transport) CreateOffer() (string, error) {
	dc, err := t.pc.CreateDataChannel("data", nil)
	if err != nil {
		return "", err
	}
	t.adopt(dc)

	offer, err := t.pc.CreateOffer(nil)
	if err != nil {
		return "", err
	}

	gatherComplete := webrtc.GatheringCompletePromise(t.pc)
	if err := t.pc.SetLocalDescription(offer); err != nil {
		return "", err
	}
	<-gatherComplete

	local := t.pc.LocalDescription()
	if local == nil {
		return "", errors.New("no local description after gathering")
	}
	return local.SDP, nil
}

// AcceptOffer prepares the responder side from a received offer and returns
// the complete answer.
func (t *Transport) AcceptOffer(offer string) (string, error) {
	if err := t.pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  offer,
	}); err != nil {
		return "", err
	}

	answer, err := t.pc.CreateAnswer(nil)
	if err != nil {
		return "", err
	}

	gatherComplete := webrtc.GatheringCompletePromise(t.pc)
	if err := t.pc.SetLocalDescription(answer); err != nil {
		return "", err
	}
	<-gatherComplete

	local := t.pc.LocalDescription()
	if local == nil {
		return "", errors.New("no local description after gathering")
	}
	return local.SDP, nil
}

// AcceptAnswer installs the answer on the initiator side.
func (t *Transport) AcceptAnswer(answer string) error {
	return t.pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  answer,
	})
}

// WaitOpen blocks until the data channel is open or the context ends.
func (t *Transport) WaitOpen(ctx context.Context) error {
	select {
	case <-t.open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send writes one message on the open data channel.
func (t *Transport) Send(data []byte) error {
	t.mu.Lock()
	dc := t.dc
	t.mu.Unlock()
	if dc == nil {
		return errors.New("data channel not established")
	}
	return dc.Send(data)
}

// OnMessage registers the inbound message handler.
func (t *Transport) OnMessage(fn func(data []byte)) {
	t.mu.Lock()
	dc := t.dc
	t.mu.Unlock()
	if dc == nil {
		return
	}
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		fn(msg.Data)
	})
}

func (t *Transport) Close() error {
	return t.pc.Close()
}
