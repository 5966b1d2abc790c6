package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	appctx "ledgerlens/internal/core/context"
	"ledgerlens/pkg/logger"
)

// CompressionAlgo specifies the compression algorithm used for payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry records one analysis request and its outcome. Large result
// payloads are stored zstd-compressed.
type AuditEntry struct {
	ID                uuid.UUID       `db:"id"`
	Company           string          `db:"company"`
	Period            string          `db:"period"`
	Sections          string          `db:"sections"`
	UserID            string          `db:"user_id"`
	RequestID         string          `db:"request_id"`
	DurationMs        int64           `db:"duration_ms"`
	HealthScore       int             `db:"health_score"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService writes the analysis audit trail. Logging is best-effort:
// failures are reported to the caller but must never fail the request.
type AuditService struct {
	pool              *Pool
	encoder           *zstd.Encoder
	compressThreshold int // bytes
}

// NewAuditService creates a new audit service.
func NewAuditService(pool *Pool) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	return &AuditService{
		pool:              pool,
		encoder:           encoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Log records an audit entry.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	if entry.UserID == "" {
		entry.UserID = appctx.GetUserID(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = appctx.GetRequestID(ctx)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	const sql = `
		INSERT INTO analysis_audit (
			id, company, period, sections, user_id, request_id,
			duration_ms, health_score, payload, payload_compressed,
			compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, sql,
		entry.ID, entry.Company, entry.Period, entry.Sections,
		entry.UserID, entry.RequestID,
		entry.DurationMs, entry.HealthScore,
		entry.Payload, entry.PayloadCompressed,
		entry.CompressionAlgo, entry.CreatedAt,
	)
	return err
}

// LogAnalysis records a completed analysis, swallowing failures with a
// warning so the audit trail never costs a request.
func (s *AuditService) LogAnalysis(ctx context.Context, company, period, sections string, healthScore int, payload any, duration time.Duration) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Warn(ctx, "audit payload marshal failed", "error", err)
		return
	}

	err = s.Log(ctx, AuditEntry{
		Company:     company,
		Period:      period,
		Sections:    sections,
		DurationMs:  duration.Milliseconds(),
		HealthScore: healthScore,
		Payload:     raw,
	})
	if err != nil {
		logger.Warn(ctx, "audit write failed", "company", company, "error", err)
	}
}
