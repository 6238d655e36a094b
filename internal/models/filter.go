package models

// ShipmentFilter задаёт параметры выборки писем и посылок.
// Нулевые значения означают отсутствие соответствующего фильтра.
type ShipmentFilter struct {
	Category int    // Код категории
	Search   string // Подстрока адреса пункта отправления или получения
	Limit    int
	Offset   int
}
