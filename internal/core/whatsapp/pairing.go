package whatsapp

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// Pairing adalah artefak QR terbaru untuk satu business
type Pairing struct {
	BusinessID string
	Code       string
	PNG        []byte
	IssuedAt   time.Time
}

// PairingHub menyimpan QR terbaru dan meneruskannya ke observer per business
type PairingHub struct {
	mu          sync.Mutex
	latest      map[string]Pairing
	subscribers map[string]map[chan Pairing]struct{}
}

func NewPairingHub() *PairingHub {
	return &PairingHub{
		latest:      make(map[string]Pairing),
		subscribers: make(map[string]map[chan Pairing]struct{}),
	}
}

// Publish render QR ke PNG lalu kirim ke semua observer business tersebut.
// Observer yang lambat dilewati, mereka tetap bisa ambil lewat Latest.
func (h *PairingHub) Publish(businessID, code string) {
	png, err := qrcode.Encode(code, qrcode.Medium, qrImageSize)
	if err != nil {
		log.Error().Err(err).Str("business_id", businessID).Msg("❌ Failed to render QR image")
	}

	p := Pairing{BusinessID: businessID, Code: code, PNG: png, IssuedAt: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest[businessID] = p
	for ch := range h.subscribers[businessID] {
		select {
		case ch <- p:
		default:
		}
	}
}

// Latest return QR terbaru yang belum di-scan
func (h *PairingHub) Latest(businessID string) (Pairing, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.latest[businessID]
	return p, ok
}

// Clear menghapus QR ketika session sudah connected atau berakhir
func (h *PairingHub) Clear(businessID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.latest, businessID)
}

// Subscribe return channel QR baru untuk business dan fungsi untuk berhenti
func (h *PairingHub) Subscribe(businessID string) (<-chan Pairing, func()) {
	ch := make(chan Pairing, 1)

	h.mu.Lock()
	if h.subscribers[businessID] == nil {
		h.subscribers[businessID] = make(map[chan Pairing]struct{})
	}
	h.subscribers[businessID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[businessID], ch)
			if len(h.subscribers[businessID]) == 0 {
				delete(h.subscribers, businessID)
			}
			close(ch)
		})
	}
	return ch, cancel
}
