// internal/core/whatsapp/whatsmeow.go
package whatsapp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

// eventBuffer menampung event selama registry belum sempat membaca
const eventBuffer = 64

// WhatsmeowDialer membuka koneksi whatsmeow, satu device per business,
// semua device disimpan di satu sqlstore container
type WhatsmeowDialer struct {
	container *sqlstore.Container
	logger    waLog.Logger
}

// NewWhatsmeowDialer init store. storeURL kosong berarti pakai SQLite lokal (store.db).
func NewWhatsmeowDialer(ctx context.Context, storeURL string) (*WhatsmeowDialer, error) {
	logger := waLog.Zerolog(log.With().Str("component", "whatsmeow").Logger())

	container, err := initStore(ctx, storeURL, logger.Sub("Database"))
	if err != nil {
		return nil, err
	}

	return &WhatsmeowDialer{container: container, logger: logger}, nil
}

func initStore(ctx context.Context, storeURL string, dbLog waLog.Logger) (*sqlstore.Container, error) {
	if storeURL != "" {
		log.Info().Msg("🌐 Using PostgreSQL database for WhatsApp store")
		container, err := sqlstore.New(ctx, "postgres", storeURL, dbLog)
		if err != nil {
			return nil, fmt.Errorf("failed to init PostgreSQL store: %w", err)
		}
		if err := container.Upgrade(ctx); err != nil {
			return nil, fmt.Errorf("failed to upgrade PostgreSQL schema: %w", err)
		}
		return container, nil
	}

	log.Info().Msg("💾 Using local SQLite store (store.db)")
	rawDB, err := sql.Open("sqlite", "file:store.db?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	container := sqlstore.NewWithDB(rawDB, "sqlite", dbLog)
	if err := container.Upgrade(ctx); err != nil {
		return nil, fmt.Errorf("failed to upgrade SQLite schema: %w", err)
	}
	return container, nil
}

// Dial membuka koneksi untuk business. Device yang tersimpan di-resume,
// kalau tidak ada dibuat device baru dan QR dikirim lewat Events.
func (d *WhatsmeowDialer) Dial(ctx context.Context, businessID, deviceJID string) (Conn, error) {
	device, err := d.loadDevice(ctx, deviceJID)
	if err != nil {
		return nil, err
	}

	client := whatsmeow.NewClient(device, d.logger.Sub("Client/"+businessID))
	// Putus koneksi dilaporkan ke registry, operator yang memutuskan reconnect
	client.EnableAutoReconnect = false

	conn := newWhatsmeowConn(client)
	client.AddEventHandler(conn.handleEvent)

	if client.Store.ID == nil {
		qrChan, err := client.GetQRChannel(conn.ctx)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to get QR channel: %w", err)
		}
		if err := client.Connect(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
		go conn.forwardQR(qrChan)
		return conn, nil
	}

	if err := client.Connect(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reconnect: %w", err)
	}
	return conn, nil
}

func (d *WhatsmeowDialer) loadDevice(ctx context.Context, deviceJID string) (*store.Device, error) {
	if deviceJID == "" {
		return d.container.NewDevice(), nil
	}

	jid, err := types.ParseJID(deviceJID)
	if err != nil {
		log.Warn().Err(err).Str("device_jid", deviceJID).Msg("⚠️ Stored device JID invalid, starting new device")
		return d.container.NewDevice(), nil
	}

	device, err := d.container.GetDevice(ctx, jid)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	if device == nil {
		return d.container.NewDevice(), nil
	}
	return device, nil
}

type whatsmeowConn struct {
	client *whatsmeow.Client

	ctx    context.Context
	cancel context.CancelFunc

	events    chan Event
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func newWhatsmeowConn(client *whatsmeow.Client) *whatsmeowConn {
	ctx, cancel := context.WithCancel(context.Background())
	return &whatsmeowConn{
		client: client,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, eventBuffer),
	}
}

func (c *whatsmeowConn) Events() <-chan Event {
	return c.events
}

func (c *whatsmeowConn) Send(ctx context.Context, address, text string) error {
	jid, err := toJID(address)
	if err != nil {
		return err
	}

	msg := &waE2E.Message{
		Conversation: proto.String(text),
	}
	_, err = c.client.SendMessage(ctx, jid, msg)
	return err
}

func (c *whatsmeowConn) Ping(ctx context.Context) error {
	if !c.client.IsConnected() {
		return ErrChannelNotConnected
	}
	return c.client.SendPresence(ctx, types.PresenceAvailable)
}

func (c *whatsmeowConn) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.client.Disconnect()

		c.mu.Lock()
		c.closed = true
		close(c.events)
		c.mu.Unlock()
	})
}

// emit berhenti menunggu begitu koneksi ditutup
func (c *whatsmeowConn) emit(ev Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}

func (c *whatsmeowConn) forwardQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for item := range qrChan {
		switch item.Event {
		case "code":
			c.emit(QRCode{Code: item.Code})
		case "success":
			log.Info().Msg("✅ QR scanned, pairing berhasil")
		case "timeout":
			c.emit(Disconnected{Reason: "qr timeout"})
			return
		default:
			reason := item.Event
			if item.Error != nil {
				reason = item.Error.Error()
			}
			c.emit(Disconnected{Reason: "pairing failed: " + reason})
			return
		}
	}
}

func (c *whatsmeowConn) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		if c.client.Store.ID == nil {
			return
		}
		c.emit(Connected{
			Phone:     c.client.Store.ID.User,
			DeviceJID: c.client.Store.ID.String(),
		})

	case *events.PairSuccess:
		log.Info().Str("jid", v.ID.String()).Msg("📲 Device paired")

	case *events.Message:
		if v.Info.IsGroup || v.Message == nil {
			return
		}
		text := v.Message.GetConversation()
		if text == "" {
			text = v.Message.GetExtendedTextMessage().GetText()
		}
		if text == "" {
			text = v.Message.GetImageMessage().GetCaption()
		}
		if text == "" {
			text = v.Message.GetVideoMessage().GetCaption()
		}
		c.emit(MessageReceived{
			SenderAddress: v.Info.Sender.User,
			PushName:      v.Info.PushName,
			Text:          text,
			ExternalID:    v.Info.ID,
			IsSelf:        v.Info.IsFromMe,
			Timestamp:     v.Info.Timestamp.UTC(),
		})

	case *events.LoggedOut:
		c.emit(LoggedOut{Reason: fmt.Sprintf("logged out: %v", v.Reason)})

	case *events.StreamReplaced:
		c.emit(Disconnected{Reason: "stream replaced by another client"})

	case *events.ConnectFailure:
		c.emit(Disconnected{Reason: fmt.Sprintf("connect failure: %v", v.Reason)})

	case *events.Disconnected:
		c.emit(Disconnected{Reason: "connection closed by server"})
	}
}

// toJID menerima nomor telepon (boleh dengan +) atau JID lengkap
func toJID(address string) (types.JID, error) {
	address = strings.TrimSpace(address)
	if strings.Contains(address, "@") {
		jid, err := types.ParseJID(address)
		if err != nil {
			return types.JID{}, fmt.Errorf("invalid address %q: %w", address, err)
		}
		return jid, nil
	}

	phone := strings.TrimPrefix(address, "+")
	if phone == "" {
		return types.JID{}, fmt.Errorf("empty address")
	}
	return types.NewJID(phone, types.DefaultUserServer), nil
}
