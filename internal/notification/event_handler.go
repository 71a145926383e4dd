package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/empleoya/internal/core/events"
)

var statusLabels = map[string]string{
	"pendiente":       "Pendiente",
	"en_revision":     "En Revisión",
	"preseleccionado": "Preseleccionado",
	"entrevista":      "En Entrevista",
	"rechazado":       "Rechazado",
	"aceptado":        "Aceptado",
}

type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleApplicationSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ApplicationSubmittedEvent)
	if !ok {
		h.logger.Error("invalid event type for application submitted handler", "event_type", event.EventType())
		return fmt.Errorf("expected ApplicationSubmittedEvent, got %T", event)
	}

	_, err := h.service.Notify(ctx, e.EmployerUserID, TypeApplication,
		"Nueva postulación",
		fmt.Sprintf("%s postuló a tu oferta %s", e.ApplicantName, e.OfferTitle),
		fmt.Sprintf("/api/postulaciones/%d", e.ApplicationID),
	)
	if err != nil {
		return fmt.Errorf("notify employer for application %d: %w", e.ApplicationID, err)
	}
	return nil
}

func (h *EventHandler) HandleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ApplicationStatusChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for status changed handler", "event_type", event.EventType())
		return fmt.Errorf("expected ApplicationStatusChangedEvent, got %T", event)
	}

	label, ok := statusLabels[e.NewStatus]
	if !ok {
		label = e.NewStatus
	}
	_, err := h.service.Notify(ctx, e.ApplicantUserID, TypeApplicationStatus,
		"Actualización de tu postulación",
		fmt.Sprintf("Tu postulación a %s ahora está: %s", e.OfferTitle, label),
		fmt.Sprintf("/api/postulaciones/%d", e.ApplicationID),
	)
	if err != nil {
		return fmt.Errorf("notify applicant for application %d: %w", e.ApplicationID, err)
	}
	return nil
}

func (h *EventHandler) HandleSystemMessage(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.SystemMessageEvent)
	if !ok {
		h.logger.Error("invalid event type for system message handler", "event_type", event.EventType())
		return fmt.Errorf("expected SystemMessageEvent, got %T", event)
	}

	if _, err := h.service.Notify(ctx, e.UserID, TypeSystem, e.Title, e.Message, e.Link); err != nil {
		return fmt.Errorf("system message for user %d: %w", e.UserID, err)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeApplicationSubmitted, h.HandleApplicationSubmitted)
	eventBus.Subscribe(events.EventTypeApplicationStatusChanged, h.HandleApplicationStatusChanged)
	eventBus.Subscribe(events.EventTypeSystemMessage, h.HandleSystemMessage)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeApplicationSubmitted,
			events.EventTypeApplicationStatusChanged,
			events.EventTypeSystemMessage,
		})
}
