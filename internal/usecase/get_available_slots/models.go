package get_available_slots

import "github.com/m04kA/salon-booking/pkg/types"

// Request модель запроса на получение доступных слотов
type Request struct {
	Date types.Date // Дата без времени
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       types.Date         // Дата, на которую запрашивались слоты
	Slots      []types.TimeString // Свободные метки в порядке шаблона, никогда не nil
	Configured bool               // false - на этот день слоты не настроены
}
