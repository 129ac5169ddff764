package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"
	"github.com/Schnee09/BHEDU-sub006/internal/storage"

	"github.com/rs/zerolog"
)

// Archiver snapshots assembled report cards to object storage. Snapshots are
// plain JSON and purely informational; the stored grades remain the source
// of truth.
type Archiver struct {
	storage storage.Storage
	log     zerolog.Logger
}

func NewArchiver(store storage.Storage) *Archiver {
	return &Archiver{
		storage: store,
		log:     logger.With("report_archiver"),
	}
}

// Archive uploads the snapshot and returns its object key.
func (a *Archiver) Archive(ctx context.Context, card *model.ReportCard) (string, error) {
	key := fmt.Sprintf("report-cards/%s/%s.json", card.Period, card.StudentID)

	data, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report card: %w", err)
	}

	if err := a.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	a.log.Info().
		Str("student_id", card.StudentID).
		Str("period", string(card.Period)).
		Str("key", key).
		Msg("Report card archived")

	return key, nil
}
