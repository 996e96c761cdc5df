package domain

import "github.com/m04kA/salon-booking/pkg/types"

// DayAvailability результат расчета доступности на дату
type DayAvailability struct {
	Date       types.Date
	Slots      []types.TimeString // свободные метки в порядке шаблона
	Configured bool               // false - слоты не настроены (не "все занято")
}

// SlotsDifference возвращает метки template, которых нет в held, сохраняя порядок
func SlotsDifference(template []types.TimeString, held []types.TimeString) []types.TimeString {
	taken := make(map[types.TimeString]struct{}, len(held))
	for _, label := range held {
		taken[label] = struct{}{}
	}

	result := make([]types.TimeString, 0, len(template))
	for _, label := range template {
		if _, ok := taken[label]; ok {
			continue
		}
		result = append(result, label)
	}
	return result
}

// ContainsSlot returns true if label is in slots
func ContainsSlot(slots []types.TimeString, label types.TimeString) bool {
	for _, s := range slots {
		if s == label {
			return true
		}
	}
	return false
}

// SlotKey ключ пары (дата, слот) для сериализации записей
func SlotKey(date types.Date, label types.TimeString) string {
	return date.String() + "|" + label.String()
}
