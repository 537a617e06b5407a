package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepo persists the channel state reported by the session registry.
// Business ids arrive as strings because the registry is tenant-agnostic.
type ConnectionRepo interface {
	MarkStatus(ctx context.Context, businessID, status string) error
	MarkConnected(ctx context.Context, businessID, phone, deviceJID string, at time.Time) error
	DeviceJID(ctx context.Context, businessID string) (string, error)
	Get(ctx context.Context, businessID uuid.UUID) (*models.WhatsAppConnection, error)
	ListResumable(ctx context.Context) ([]string, error)
}

type connectionRepo struct {
	db *gorm.DB
}

func NewConnectionRepo(db *gorm.DB) ConnectionRepo {
	return &connectionRepo{db: db}
}

func (r *connectionRepo) MarkStatus(ctx context.Context, businessID, status string) error {
	uid, err := uuid.Parse(businessID)
	if err != nil {
		return fmt.Errorf("invalid business ID: %w", err)
	}

	conn := models.WhatsAppConnection{BusinessID: uid, Status: status}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&conn).Error
}

func (r *connectionRepo) MarkConnected(ctx context.Context, businessID, phone, deviceJID string, at time.Time) error {
	uid, err := uuid.Parse(businessID)
	if err != nil {
		return fmt.Errorf("invalid business ID: %w", err)
	}

	conn := models.WhatsAppConnection{
		BusinessID:    uid,
		PhoneNumber:   phone,
		DeviceJID:     deviceJID,
		Status:        models.ConnectionStatusConnected,
		LastConnected: &at,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phone_number", "device_jid", "status", "last_connected", "updated_at"}),
	}).Create(&conn).Error
}

// DeviceJID returns the stored device identity, or "" when the business never paired.
func (r *connectionRepo) DeviceJID(ctx context.Context, businessID string) (string, error) {
	uid, err := uuid.Parse(businessID)
	if err != nil {
		return "", fmt.Errorf("invalid business ID: %w", err)
	}

	conn, err := r.Get(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return conn.DeviceJID, nil
}

func (r *connectionRepo) Get(ctx context.Context, businessID uuid.UUID) (*models.WhatsAppConnection, error) {
	var conn models.WhatsAppConnection
	if err := r.db.WithContext(ctx).First(&conn, "business_id = ?", businessID).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// ListResumable returns businesses that were connected with a stored device
// when the process last stopped.
func (r *connectionRepo) ListResumable(ctx context.Context) ([]string, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.WhatsAppConnection{}).
		Where("status = ? AND device_jid <> ''", models.ConnectionStatusConnected).
		Pluck("business_id", &ids).Error
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out, nil
}
