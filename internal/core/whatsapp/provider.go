package whatsapp

import (
	"context"
	"errors"
	"time"
)

// ErrChannelNotConnected dikembalikan ketika business tidak punya session yang connected
var ErrChannelNotConnected = errors.New("whatsapp channel not connected")

// SessionState adalah state lifecycle dari satu channel session
type SessionState string

const (
	StatePairing      SessionState = "pairing"
	StateConnected    SessionState = "connected"
	StateDisconnected SessionState = "disconnected"
	StateAuthFailed   SessionState = "auth_failed"
)

// Event adalah event yang dikirim oleh channel connection ke registry
type Event interface {
	channelEvent()
}

// QRCode dikirim setiap kali channel mengeluarkan QR payload baru untuk pairing
type QRCode struct {
	Code string
}

// Connected dikirim ketika device sudah login dan siap kirim/terima pesan
type Connected struct {
	Phone     string
	DeviceJID string
}

// Disconnected dikirim ketika koneksi ditutup oleh channel
type Disconnected struct {
	Reason string
}

// LoggedOut dikirim ketika kredensial device tidak valid lagi (perlu pairing ulang)
type LoggedOut struct {
	Reason string
}

// MessageReceived adalah pesan masuk yang sudah dinormalisasi
type MessageReceived struct {
	SenderAddress string
	PushName      string
	Text          string
	ExternalID    string
	IsSelf        bool
	Timestamp     time.Time
}

func (QRCode) channelEvent()          {}
func (Connected) channelEvent()       {}
func (Disconnected) channelEvent()    {}
func (LoggedOut) channelEvent()       {}
func (MessageReceived) channelEvent() {}

// Conn adalah satu koneksi live ke WhatsApp milik satu business.
// Events ditutup setelah Close dipanggil.
type Conn interface {
	Events() <-chan Event
	Send(ctx context.Context, address, text string) error
	Ping(ctx context.Context) error
	Close()
}

// Dialer membuka koneksi baru. deviceJID kosong berarti device baru (pairing via QR).
type Dialer interface {
	Dial(ctx context.Context, businessID, deviceJID string) (Conn, error)
}

// ConnectionStore menyimpan status koneksi terakhir per business
type ConnectionStore interface {
	MarkStatus(ctx context.Context, businessID, status string) error
	MarkConnected(ctx context.Context, businessID, phone, deviceJID string, at time.Time) error
	DeviceJID(ctx context.Context, businessID string) (string, error)
}

// InboundHandler menerima pesan masuk dari session milik businessID
type InboundHandler func(businessID string, msg MessageReceived)
