package client

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// 线上格式：小端、紧凑排列、无填充，客户端与服务端必须一致
const (
	ClientHeaderSize = 1 + 4
	ServerHeaderSize = 4 * 5
	RecordSize       = 4 + 8*3 + 1

	// MaxPlayers 接收缓冲区可容纳的玩家记录数量
	MaxPlayers = 32
	// MaxSnapshotSize 单个快照数据报的最大长度
	MaxSnapshotSize = ServerHeaderSize + MaxPlayers*RecordSize
	// UpdateSize 周期上报数据报的长度
	UpdateSize = ClientHeaderSize + RecordSize
)

var (
	ErrShortPacket    = errors.New("packet too short")
	ErrTooManyPlayers = errors.New("snapshot declares too many players")
)

var le = binary.LittleEndian

// ClientHeader 客户端→服务端的包头
type ClientHeader struct {
	Request bool
	Seq     uint32
}

// ServerHeader 服务端→客户端的快照包头；ClientPlayerNum 只在首个快照中有意义
type ServerHeader struct {
	ServerSeq       uint32
	RedScore        int32
	BlueScore       int32
	ClientPlayerNum int32
	NumPlayers      uint32
}

// PlayerRecord 双向通用的单个玩家状态
type PlayerRecord struct {
	PlayerNum   int32
	X           float64
	Y           float64
	Orientation float64
	LaserActive bool
}

// Snapshot 一次服务端权威更新
type Snapshot struct {
	Header  ServerHeader
	Records []PlayerRecord
}

// AppendJoinRequest 追加一个加入请求（只有包头，且除请求标志外全为零）
func AppendJoinRequest(b []byte) []byte {
	return appendClientHeader(b, ClientHeader{Request: true})
}

// AppendUpdate 追加一个周期上报：包头 + 本地玩家的一条记录
func AppendUpdate(b []byte, seq uint32, rec PlayerRecord) []byte {
	b = appendClientHeader(b, ClientHeader{Seq: seq})
	return appendRecord(b, rec)
}

func appendClientHeader(b []byte, h ClientHeader) []byte {
	b = append(b, boolByte(h.Request))
	return le.AppendUint32(b, h.Seq)
}

func appendRecord(b []byte, r PlayerRecord) []byte {
	b = le.AppendUint32(b, uint32(r.PlayerNum))
	b = le.AppendUint64(b, math.Float64bits(r.X))
	b = le.AppendUint64(b, math.Float64bits(r.Y))
	b = le.AppendUint64(b, math.Float64bits(r.Orientation))
	return append(b, boolByte(r.LaserActive))
}

// AppendSnapshot 编码一个快照，主要用于测试与模拟服务端
func AppendSnapshot(b []byte, s Snapshot) []byte {
	h := s.Header
	b = le.AppendUint32(b, h.ServerSeq)
	b = le.AppendUint32(b, uint32(h.RedScore))
	b = le.AppendUint32(b, uint32(h.BlueScore))
	b = le.AppendUint32(b, uint32(h.ClientPlayerNum))
	b = le.AppendUint32(b, h.NumPlayers)
	for _, r := range s.Records {
		b = appendRecord(b, r)
	}
	return b
}

// DecodeClientPacket 解析客户端数据报；join 请求不带记录，rec 为 nil
func DecodeClientPacket(b []byte) (ClientHeader, *PlayerRecord, error) {
	if len(b) < ClientHeaderSize {
		return ClientHeader{}, nil, ErrShortPacket
	}
	h := ClientHeader{Request: b[0] != 0, Seq: le.Uint32(b[1:5])}
	b = b[ClientHeaderSize:]
	if len(b) < RecordSize {
		return h, nil, nil
	}
	rec := decodeRecord(b)
	return h, &rec, nil
}

// DecodeSnapshot 解析快照：记录按包头声明的数量截断，其余视为缓冲区填充
func DecodeSnapshot(b []byte) (Snapshot, error) {
	if len(b) < ServerHeaderSize {
		return Snapshot{}, ErrShortPacket
	}
	h := ServerHeader{
		ServerSeq:       le.Uint32(b[0:4]),
		RedScore:        int32(le.Uint32(b[4:8])),
		BlueScore:       int32(le.Uint32(b[8:12])),
		ClientPlayerNum: int32(le.Uint32(b[12:16])),
		NumPlayers:      le.Uint32(b[16:20]),
	}
	if h.NumPlayers > MaxPlayers {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrTooManyPlayers, h.NumPlayers)
	}
	body := b[ServerHeaderSize:]
	n := int(h.NumPlayers)
	if len(body) < n*RecordSize {
		return Snapshot{}, fmt.Errorf("%w: %d records declared, %d bytes of body", ErrShortPacket, n, len(body))
	}
	recs := make([]PlayerRecord, n)
	for i := range recs {
		recs[i] = decodeRecord(body[i*RecordSize:])
	}
	return Snapshot{Header: h, Records: recs}, nil
}

func decodeRecord(b []byte) PlayerRecord {
	return PlayerRecord{
		PlayerNum:   int32(le.Uint32(b[0:4])),
		X:           math.Float64frombits(le.Uint64(b[4:12])),
		Y:           math.Float64frombits(le.Uint64(b[12:20])),
		Orientation: math.Float64frombits(le.Uint64(b[20:28])),
		LaserActive: b[28] != 0,
	}
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
