// Package activityrepo stores the append-only activity ledger.
package activityrepo

import (
	"encoding/json"
	"time"

	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// EntryDTO is one ledger row. Seq orders entries written within the same instant.
type EntryDTO struct {
	Seq        int64      `gorm:"primaryKey;autoIncrement"`
	ID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"type:varchar(64);not null;index"`
	EntityType string     `gorm:"type:varchar(32);not null;index:idx_activity_entity,priority:1"`
	EntityID   string     `gorm:"type:varchar(64);not null;index:idx_activity_entity,priority:2"`
	Details    []byte     `gorm:"type:jsonb;not null"`
	RemoteIP   string     `gorm:"type:varchar(64)"`
	UserAgent  string     `gorm:"type:text"`
	RequestID  string     `gorm:"type:varchar(64)"`
	CreatedAt  time.Time  `gorm:"not null;index"`
}

func (EntryDTO) TableName() string {
	return "activity_log"
}

func fromDomain(e activity.Entry) (EntryDTO, error) {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return EntryDTO{}, errors.Wrap(err, "encode activity details")
	}

	dto := EntryDTO{
		ID:         e.ID.Bytes(),
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    details,
		CreatedAt:  e.CreatedAt,
	}
	if e.ActorID != nil {
		raw := e.ActorID.Bytes()
		dto.ActorID = &raw
	}
	if p := e.Provenance; p != nil {
		dto.RemoteIP, dto.UserAgent, dto.RequestID = p.RemoteIP, p.UserAgent, p.RequestID
	}
	return dto, nil
}

func toDomain(dto EntryDTO) (activity.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return activity.Entry{}, err
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		a, actorErr := kernel.UUIDFromBytes(dto.ActorID[:])
		if actorErr != nil {
			return activity.Entry{}, actorErr
		}
		actorID = &a
	}

	details := activity.Details{}
	if len(dto.Details) > 0 {
		if err = json.Unmarshal(dto.Details, &details); err != nil {
			return activity.Entry{}, errors.Wrap(err, "decode activity details")
		}
	}

	var provenance *activity.Provenance
	if dto.RemoteIP != "" || dto.UserAgent != "" || dto.RequestID != "" {
		provenance = &activity.Provenance{RemoteIP: dto.RemoteIP, UserAgent: dto.UserAgent, RequestID: dto.RequestID}
	}

	return activity.Entry{
		ID:         id,
		ActorID:    actorID,
		Action:     activity.Action(dto.Action),
		EntityType: dto.EntityType,
		EntityID:   dto.EntityID,
		Details:    details,
		Provenance: provenance,
		CreatedAt:  dto.CreatedAt.UTC(),
	}, nil
}
