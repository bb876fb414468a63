// Package chainsync implements the Ouroboros mini-protocol client: the
// segment multiplexer, handshake, chain-sync and block-fetch state
// machines, and multi-era header/block decoding, wired together as a
// pipeline source.
package chainsync

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Channel IDs for the mini-protocols this package speaks, per the
// Ouroboros network spec's canonical protocol numbers.
const (
	ChannelHandshake       = 0
	ChannelN2NChainSync    = 2
	ChannelN2NBlockFetch   = 3
	ChannelN2CChainSync    = 5
	ChannelN2CStateQuery   = 7
)

// segmentHeaderSize is the fixed 8-byte header preceding every segment:
// a 4-byte timestamp, a 2-byte channel id (high bit set for
// server-to-client segments), and a 2-byte payload length.
const segmentHeaderSize = 8

const maxSegmentPayload = 1<<16 - 1

// segment is one framed unit of mini-protocol data on the wire.
type segment struct {
	channel uint16
	fromPeer bool
	payload []byte
}

// lane is a multiplexer's view of one mini-protocol channel: an outbound
// queue the agent writes to, and an inbound queue the demuxer delivers
// full segments into.
type lane struct {
	id     uint16
	out    chan []byte
	in     chan []byte
	closed chan struct{}
}

// Multiplexer owns a single duplex byte stream (TCP or UNIX socket) and
// carves it into independent mini-protocol channels. It runs a muxer loop
// (drains per-channel outbound queues into framed segments) and a demuxer
// loop (routes incoming segments by channel id) concurrently with every
// protocol agent using a lane.
type Multiplexer struct {
	conn net.Conn

	mu    sync.Mutex
	lanes map[uint16]*lane

	errOnce sync.Once
	errCh   chan error
}

// Setup dials addr (tcp or unix, selected by network) and starts the
// muxer/demuxer loops. channels lists every channel id this multiplexer
// will be asked to open lanes for; unknown incoming channel ids are
// logged and dropped rather than treated as fatal, so a peer offering an
// extra mini-protocol doesn't bring down the connection.
func Setup(network, address string, channels []uint16) (*Multiplexer, error) {
	conn, err := net.DialTimeout(network, address, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("chainsync: dial %s %s: %w", network, address, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
		_ = tc.SetKeepAlive(true)
		_ = tc.SetKeepAlivePeriod(30 * time.Second)
	}

	m := &Multiplexer{
		conn:  conn,
		lanes: make(map[uint16]*lane, len(channels)),
		errCh: make(chan error, 1),
	}
	for _, id := range channels {
		m.lanes[id] = &lane{
			id:     id,
			out:    make(chan []byte, laneQueueDepth),
			in:     make(chan []byte, laneQueueDepth),
			closed: make(chan struct{}),
		}
	}

	go m.muxLoop()
	go m.demuxLoop()

	return m, nil
}

// laneQueueDepth mirrors stage.MultiplexerLaneCapacity (1000, not the
// 100-element default between pipeline stages), since a lane is itself a
// bounded producer -> consumer queue.
const laneQueueDepth = 1000

// UseChannel returns the lane for id, or an error if Setup wasn't given
// that channel id.
func (m *Multiplexer) UseChannel(id uint16) (*Channel, error) {
	m.mu.Lock()
	l, ok := m.lanes[id]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("chainsync: channel %d not registered on this multiplexer", id)
	}
	return &Channel{m: m, lane: l}, nil
}

// Err returns a channel that receives the multiplexer's terminal error
// once the connection fails; nothing is sent while it is healthy.
func (m *Multiplexer) Err() <-chan error {
	return m.errCh
}

func (m *Multiplexer) fail(err error) {
	m.errOnce.Do(func() {
		m.errCh <- err
		m.mu.Lock()
		for _, l := range m.lanes {
			close(l.closed)
		}
		m.mu.Unlock()
		_ = m.conn.Close()
	})
}

// muxLoop drains every lane's outbound queue in round-robin order,
// writing each as one framed segment. A single goroutine owns socket
// writes so segments from different lanes never interleave mid-frame.
func (m *Multiplexer) muxLoop() {
	for {
		m.mu.Lock()
		lanes := make([]*lane, 0, len(m.lanes))
		for _, l := range m.lanes {
			lanes = append(lanes, l)
		}
		m.mu.Unlock()

		sentAny := false
		for _, l := range lanes {
			select {
			case payload, ok := <-l.out:
				if !ok {
					continue
				}
				if err := m.writeSegment(l.id, false, payload); err != nil {
					m.fail(err)
					return
				}
				sentAny = true
			default:
			}
		}
		if !sentAny {
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func (m *Multiplexer) writeSegment(channel uint16, fromPeer bool, payload []byte) error {
	for len(payload) > 0 {
		chunk := payload
		if len(chunk) > maxSegmentPayload {
			chunk = chunk[:maxSegmentPayload]
		}
		payload = payload[len(chunk):]

		var header [segmentHeaderSize]byte
		binary.BigEndian.PutUint32(header[0:4], uint32(time.Now().UnixMilli()&0xffffffff))
		ch := channel
		if fromPeer {
			ch |= 0x8000
		}
		binary.BigEndian.PutUint16(header[4:6], ch)
		binary.BigEndian.PutUint16(header[6:8], uint16(len(chunk)))

		if _, err := m.conn.Write(header[:]); err != nil {
			return err
		}
		if _, err := m.conn.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

// demuxLoop reads framed segments off the socket and routes each to its
// channel's inbound queue by id.
func (m *Multiplexer) demuxLoop() {
	var header [segmentHeaderSize]byte
	for {
		if _, err := io.ReadFull(m.conn, header[:]); err != nil {
			m.fail(fmt.Errorf("chainsync: reading segment header: %w", err))
			return
		}
		channel := binary.BigEndian.Uint16(header[4:6]) &^ 0x8000
		size := binary.BigEndian.Uint16(header[6:8])

		payload := make([]byte, size)
		if _, err := io.ReadFull(m.conn, payload); err != nil {
			m.fail(fmt.Errorf("chainsync: reading segment payload: %w", err))
			return
		}

		m.mu.Lock()
		l, ok := m.lanes[channel]
		m.mu.Unlock()
		if !ok {
			log.Debug("chainsync: dropping segment for unregistered channel", "channel", channel)
			continue
		}
		select {
		case l.in <- payload:
		case <-l.closed:
			return
		}
	}
}

// Channel is one mini-protocol agent's exclusive view of a multiplexer
// lane: send frames it writes, recv frames addressed to it.
type Channel struct {
	m    *Multiplexer
	lane *lane
}

// Send enqueues payload as one or more outbound segments.
func (c *Channel) Send(payload []byte) error {
	select {
	case c.lane.out <- payload:
		return nil
	case <-c.lane.closed:
		return fmt.Errorf("chainsync: channel %d closed", c.lane.id)
	}
}

// Recv blocks for the next inbound segment addressed to this channel.
func (c *Channel) Recv() ([]byte, error) {
	select {
	case payload := <-c.lane.in:
		return payload, nil
	case <-c.lane.closed:
		return nil, fmt.Errorf("chainsync: channel %d closed", c.lane.id)
	}
}
