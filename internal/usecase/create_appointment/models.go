package create_appointment

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientRef string           // Ссылка на клиента из identity-провайдера
	ServiceID int64            // ID услуги
	AddOnIDs  []int64          // ID дополнений (опционально)
	Date      time.Time        // Дата записи (без времени)
	StartTime types.TimeString // Время начала (например, "10:00")
	Notes     *string          // Пожелания клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // Внутренний ID записи
	Code            string           // Клиентский код записи (UUID)
	ClientRef       string           // Ссылка на клиента
	ServiceID       int64            // ID услуги
	AddOnIDs        []int64          // ID дополнений
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Суммарная длительность
	Price           float64          // Итоговая цена: услуга + дополнения
	Status          string           // Статус записи
	PaymentStatus   string           // Статус оплаты

	// Денормализованные данные
	ServiceName string   // Название услуги
	AddOnNames  []string // Названия дополнений
	ClientName  string   // Имя клиента
	ClientEmail *string  // Email клиента
	ClientPhone *string  // Телефон клиента
	Notes       *string  // Пожелания клиента

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
