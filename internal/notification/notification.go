package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/notification"
)

const (
	TypeApplication       = "postulacion"
	TypeApplicationStatus = "estado_postulacion"
	TypeNewOffer          = "nueva_oferta"
	TypeMessage           = "mensaje"
	TypeAlert             = "alerta"
	TypeSystem            = "sistema"
)

type Notification struct {
	ID        int64      `json:"id"`
	Type      string     `json:"tipo"`
	Title     string     `json:"titulo"`
	Message   string     `json:"mensaje"`
	Link      *string    `json:"enlace"`
	Read      bool       `json:"leida"`
	CreatedAt time.Time  `json:"fecha_creacion"`
	ReadAt    *time.Time `json:"fecha_leida"`
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

// MarkRead sets the read flag; the timestamp is set only on the transition.
func MarkRead(n *notificationDatamodel.Notification, now time.Time) bool {
	if n.Read {
		return false
	}
	n.Read = true
	n.ReadAt = &now
	return true
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

type MarkAllResult struct {
	Updated int64 `json:"actualizadas"`
}
