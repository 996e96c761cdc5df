package create_booking

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Policy правила приема бронирований
type Policy struct {
	InitialStatus domain.BookingStatus // pending или confirmed
	HorizonDays   int                  // 0 = без ограничения
	Location      *time.Location       // часовой пояс салона для определения "сегодня"
}

// Request модель запроса на создание бронирования
type Request struct {
	Date         types.Date       // Дата без времени
	Slot         types.TimeString // Метка слота, например "14:00"
	CustomerName string
	Phone        string
	Services     []string // Названия услуг из прайс-листа (опционально)
	Note         *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	Date            types.Date
	Slot            types.TimeString
	EndTime         types.TimeString // Расчетное окончание, только для отображения
	CustomerName    string
	Phone           string
	Services        []string
	Price           float64
	DurationMinutes int
	Status          domain.BookingStatus
	Note            *string
	CreatedAt       time.Time
}
