package dto

import (
	"time"
	"voyage/shared/constant"
	"voyage/shared/model"
	"voyage/shared/timezone"
)

// Metadata is the audit block of catalog rows as the API shows it. Times are
// rendered in the application zone and left empty when never set.
type Metadata struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.DateFormat)
}

func (m *Metadata) FromModel(source model.Metadata) {
	m.CreatedAt = formatTime(source.CreatedAt)
	m.UpdatedAt = formatTime(source.ModifiedAt)
	m.CreatedBy = source.CreatedBy
	m.UpdatedBy = source.ModifiedBy
}
