package notifier

import (
	"context"

	"github.com/m04kA/LBS-SchedulingService/internal/integrations/notifygateway"
)

// NotifyGatewayClient интерфейс клиента шлюза уведомлений
type NotifyGatewayClient interface {
	Send(ctx context.Context, notification notifygateway.Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
