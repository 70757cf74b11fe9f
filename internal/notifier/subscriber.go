// Package notifier переводит доменные события в уведомления клиентам.
// Подписчик живет за диспетчером событий: сбой шлюза уведомлений
// логируется и никогда не влияет на состояние записей.
package notifier

import (
	"context"
	"fmt"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/notifygateway"
)

// Subscriber подписчик на доменные события для отправки уведомлений
type Subscriber struct {
	client NotifyGatewayClient
	logger Logger
}

// NewSubscriber создает подписчика уведомлений
func NewSubscriber(client NotifyGatewayClient, logger Logger) *Subscriber {
	return &Subscriber{
		client: client,
		logger: logger,
	}
}

// Handle обрабатывает одно доменное событие
func (s *Subscriber) Handle(ctx context.Context, event domain.Event) {
	appointment := event.Appointment
	if appointment == nil || appointment.ClientRef == "" {
		return
	}

	notification := s.buildNotification(event)
	if notification == nil {
		return
	}

	if err := s.client.Send(ctx, *notification); err != nil {
		s.logger.Error("Notifier: failed to send %s for appointment=%s: %v",
			notification.Type, appointment.Code, err)
		return
	}

	s.logger.Info("Notifier: sent %s for appointment=%s", notification.Type, appointment.Code)
}

func (s *Subscriber) buildNotification(event domain.Event) *notifygateway.Notification {
	appointment := event.Appointment
	when := fmt.Sprintf("%s %s", appointment.Date.Format(domain.DateFormat), appointment.StartTime)

	switch event.Type {
	case domain.EventTypeAppointmentCreated:
		return &notifygateway.Notification{
			Type:            notifygateway.TypeAppointmentCreated,
			ClientRef:       appointment.ClientRef,
			Email:           appointment.ClientEmail,
			Phone:           appointment.ClientPhone,
			AppointmentCode: appointment.Code,
			Message: fmt.Sprintf("Запись на %q создана: %s, статус %s",
				appointment.ServiceName, when, appointment.Status),
		}

	case domain.EventTypeStatusChanged:
		return &notifygateway.Notification{
			Type:            notifygateway.TypeStatusChanged,
			ClientRef:       appointment.ClientRef,
			Email:           appointment.ClientEmail,
			Phone:           appointment.ClientPhone,
			AppointmentCode: appointment.Code,
			Message: fmt.Sprintf("Статус записи на %q изменен: %s -> %s",
				appointment.ServiceName, event.FromStatus, event.ToStatus),
		}

	case domain.EventTypeReminderDue:
		return &notifygateway.Notification{
			Type:            notifygateway.TypeReminder,
			ClientRef:       appointment.ClientRef,
			Email:           appointment.ClientEmail,
			Phone:           appointment.ClientPhone,
			AppointmentCode: appointment.Code,
			Message: fmt.Sprintf("Напоминание: запись на %q %s",
				appointment.ServiceName, when),
		}

	default:
		s.logger.Warn("Notifier: unknown event type %q", event.Type)
		return nil
	}
}
