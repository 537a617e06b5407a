package whatsapp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// storeTimeout membatasi penulisan status ke database dari goroutine event
const storeTimeout = 10 * time.Second

// Session adalah channel session milik satu business
type Session struct {
	BusinessID string

	mu            sync.Mutex
	state         SessionState
	qr            string
	phone         string
	deviceJID     string
	lastConnected time.Time
	conn          Conn

	// ended diset saat session masuk state terminal, dibaca tanpa s.mu
	ended atomic.Bool
}

// State return state session saat ini
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// QR return QR payload terakhir selama pairing
func (s *Session) QR() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qr
}

// Phone return nomor WhatsApp yang terhubung
func (s *Session) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

// LastConnected return waktu terakhir session masuk state connected
func (s *Session) LastConnected() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastConnected
}

// Registry memegang satu session per business
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	dialer    Dialer
	store     ConnectionStore
	hub       *PairingHub
	onMessage InboundHandler

	// statusLocks menyerialkan penulisan status per business
	statusMu    sync.Mutex
	statusLocks map[string]*sync.Mutex
}

// NewRegistry membuat registry. hub boleh nil kalau tidak ada observer QR.
func NewRegistry(dialer Dialer, store ConnectionStore, hub *PairingHub) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		dialer:      dialer,
		store:       store,
		hub:         hub,
		statusLocks: make(map[string]*sync.Mutex),
	}
}

// OnMessage mendaftarkan handler untuk pesan masuk. Harus dipanggil sebelum Connect.
func (r *Registry) OnMessage(handler InboundHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMessage = handler
}

// Connect return session yang sudah ada atau membuka koneksi baru.
// Panggilan bersamaan untuk business yang sama mendapat session yang sama.
// Session yang sedang ditutup dianggap tidak ada.
func (r *Registry) Connect(ctx context.Context, businessID string) (*Session, error) {
	r.mu.Lock()
	if s, ok := r.sessions[businessID]; ok && !s.ended.Load() {
		r.mu.Unlock()
		return s, nil
	}

	s := &Session{BusinessID: businessID, state: StatePairing}
	// Lock entry sebelum dipublish supaya pemanggil lain menunggu dial selesai
	s.mu.Lock()
	r.sessions[businessID] = s
	handler := r.onMessage
	r.mu.Unlock()

	deviceJID, err := r.store.DeviceJID(ctx, businessID)
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("⚠️ Failed to load stored device, pairing as new device")
		deviceJID = ""
	}
	r.persistStatus(s, StatePairing)

	conn, err := r.dialer.Dial(ctx, businessID, deviceJID)
	if err != nil {
		s.state = StateDisconnected
		s.ended.Store(true)
		s.mu.Unlock()
		r.remove(s)
		r.persistStatus(s, StateDisconnected)
		return nil, fmt.Errorf("failed to connect whatsapp: %w", err)
	}
	s.conn = conn
	s.mu.Unlock()

	log.Info().Str("business_id", businessID).Msg("📱 WhatsApp session started")

	go r.consume(s, conn.Events(), handler)
	return s, nil
}

// GetActiveSession return session milik business kalau ada dan belum ditutup
func (r *Registry) GetActiveSession(businessID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[businessID]
	if !ok || s.ended.Load() {
		return nil, false
	}
	return s, true
}

// Status return state session, atau disconnected kalau tidak ada session
func (r *Registry) Status(businessID string) SessionState {
	s, ok := r.GetActiveSession(businessID)
	if !ok {
		return StateDisconnected
	}
	return s.State()
}

// Disconnect menutup koneksi dan menghapus session dari registry
func (r *Registry) Disconnect(ctx context.Context, businessID string) error {
	s, ok := r.GetActiveSession(businessID)
	if !ok {
		return ErrChannelNotConnected
	}
	r.terminate(s, StateDisconnected, "disconnect requested")
	return nil
}

// Send mengirim pesan text lewat session business yang sedang connected
func (r *Registry) Send(ctx context.Context, businessID, address, text string) error {
	s, ok := r.GetActiveSession(businessID)
	if !ok {
		return ErrChannelNotConnected
	}

	s.mu.Lock()
	conn, state := s.conn, s.state
	s.mu.Unlock()

	if state != StateConnected || conn == nil {
		return ErrChannelNotConnected
	}

	if err := conn.Send(ctx, address, text); err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return nil
}

// ConnectedBusinesses return business id yang sessionnya connected
func (r *Registry) ConnectedBusinesses() []string {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	var ids []string
	for _, s := range sessions {
		if s.State() == StateConnected {
			ids = append(ids, s.BusinessID)
		}
	}
	return ids
}

// Shutdown menutup semua session, dipanggil saat server berhenti
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
	}
	log.Info().Int("sessions", len(sessions)).Msg("🔌 WhatsApp sessions closed")
}

func (r *Registry) consume(s *Session, events <-chan Event, handler InboundHandler) {
	for ev := range events {
		switch e := ev.(type) {
		case QRCode:
			s.mu.Lock()
			s.qr = e.Code
			s.mu.Unlock()
			if r.hub != nil {
				r.hub.Publish(s.BusinessID, e.Code)
			}
			log.Info().Str("business_id", s.BusinessID).Msg("🔗 New pairing QR issued")

		case Connected:
			now := time.Now().UTC()
			r.writeStatus(s, func(ctx context.Context) error {
				return r.store.MarkConnected(ctx, s.BusinessID, e.Phone, e.DeviceJID, now)
			}, StateConnected)

			s.mu.Lock()
			s.state = StateConnected
			s.qr = ""
			s.phone = e.Phone
			s.deviceJID = e.DeviceJID
			s.lastConnected = now
			s.mu.Unlock()
			if r.hub != nil {
				r.hub.Clear(s.BusinessID)
			}
			log.Info().Str("business_id", s.BusinessID).Str("phone", e.Phone).Msg("✅ WhatsApp connected")

		case MessageReceived:
			if handler != nil {
				handler(s.BusinessID, e)
			}

		case LoggedOut:
			r.terminate(s, StateAuthFailed, e.Reason)
			return

		case Disconnected:
			r.terminate(s, StateDisconnected, e.Reason)
			return
		}
	}

	r.terminate(s, StateDisconnected, "event stream closed")
}

// terminate memindahkan session ke state terminal satu kali saja. Entry dihapus
// dari registry sebelum koneksi ditutup supaya Connect berikutnya langsung dial baru.
func (r *Registry) terminate(s *Session, state SessionState, reason string) {
	s.mu.Lock()
	if s.state == StateDisconnected || s.state == StateAuthFailed {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.qr = ""
	conn := s.conn
	s.mu.Unlock()

	if r.hub != nil {
		r.hub.Clear(s.BusinessID)
	}
	s.ended.Store(true)
	r.remove(s)

	if conn != nil {
		conn.Close()
	}
	r.persistStatus(s, state)

	log.Warn().Str("business_id", s.BusinessID).Str("state", string(state)).Str("reason", reason).Msg("🛑 WhatsApp session ended")
}

// remove hanya menghapus entry kalau masih session yang sama
func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[s.BusinessID]; ok && current == s {
		delete(r.sessions, s.BusinessID)
	}
}

func (r *Registry) persistStatus(s *Session, state SessionState) {
	r.writeStatus(s, func(ctx context.Context) error {
		return r.store.MarkStatus(ctx, s.BusinessID, string(state))
	}, state)
}

// writeStatus menulis status atas nama s. Kalau business sudah punya session
// yang lebih baru, penulisan dari session lama dibuang.
func (r *Registry) writeStatus(s *Session, write func(ctx context.Context) error, state SessionState) {
	lock := r.statusLock(s.BusinessID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	current, ok := r.sessions[s.BusinessID]
	r.mu.Unlock()
	if ok && current != s {
		log.Debug().Str("business_id", s.BusinessID).Str("state", string(state)).Msg("Skipping status write from replaced session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := write(ctx); err != nil {
		log.Error().Err(err).Str("business_id", s.BusinessID).Str("state", string(state)).Msg("❌ Failed to persist session status")
	}
}

func (r *Registry) statusLock(businessID string) *sync.Mutex {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	lock, ok := r.statusLocks[businessID]
	if !ok {
		lock = &sync.Mutex{}
		r.statusLocks[businessID] = lock
	}
	return lock
}
