package wstap

import (
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
)

// Frame event records decoded from the raw CDP event stream. Every event
// that is not part of the WebSocket lifecycle decodes to nil and is
// ignored by the capture session.
type (
	connectionEstablished struct {
		requestID string
		url       string
	}

	frameReceived struct {
		requestID string
		payload   string
		timestamp float64
	}

	frameSent struct {
		requestID string
		payload   string
		timestamp float64
	}

	connectionClosed struct {
		requestID string
	}
)

// decodeNetworkEvent maps a raw CDP event to one of the frame event
// records above. Malformed or unrelated events return nil.
func decodeNetworkEvent(ev any, now func() time.Time) any {
	switch e := ev.(type) {
	case *network.EventWebSocketCreated:
		if e.RequestID == "" || e.URL == "" {
			return nil
		}
		return connectionEstablished{requestID: string(e.RequestID), url: e.URL}
	case *network.EventWebSocketFrameReceived:
		return frameReceived{
			requestID: string(e.RequestID),
			payload:   framePayload(e.Response),
			timestamp: eventSeconds(e.Timestamp, now),
		}
	case *network.EventWebSocketFrameSent:
		return frameSent{
			requestID: string(e.RequestID),
			payload:   framePayload(e.Response),
			timestamp: eventSeconds(e.Timestamp, now),
		}
	case *network.EventWebSocketClosed:
		return connectionClosed{requestID: string(e.RequestID)}
	}
	return nil
}

func framePayload(frame *network.WebSocketFrame) string {
	if frame == nil {
		return ""
	}
	return frame.PayloadData
}

// eventSeconds converts a CDP monotonic timestamp to Unix seconds.
// cdproto anchors monotonic times to the host boot time, so Time()
// already yields wall-clock time. Events without a timestamp fall back
// to the wall clock at decode time.
func eventSeconds(t *cdp.MonotonicTime, now func() time.Time) float64 {
	if t == nil {
		return unixSeconds(now())
	}
	return unixSeconds(t.Time())
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
