package whatsapp

import (
	"context"

	"github.com/rs/zerolog/log"
)

// PingAll mengirim presence "available" ke semua session connected supaya tidak idle
func (r *Registry) PingAll(ctx context.Context) {
	for _, businessID := range r.ConnectedBusinesses() {
		s, ok := r.GetActiveSession(businessID)
		if !ok {
			continue
		}

		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			continue
		}

		if err := conn.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("business_id", businessID).Msg("⚠️ Keep-alive ping failed")
			continue
		}
		log.Debug().Str("business_id", businessID).Msg("💓 Keep-alive ping sent")
	}
}
