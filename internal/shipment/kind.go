// Package shipment описывает общие правила для писем и посылок:
// разбор входных данных, проверку перекрёстных ограничений и
// представление записи для ответа API. Письма и посылки различаются
// только дескриптором Kind.
package shipment

// Category элемент перечисления категорий отправления.
type Category struct {
	Code  int
	Label string
}

// Kind описывает вид отправления.
type Kind struct {
	Name          string     // Имя модели для ошибок и логов
	Table         string     // Таблица хранилища и префикс маршрута
	AmountField   string     // Имя числового поля (weight или cost)
	AmountMessage string     // Сообщение при значении меньше 1
	Categories    []Category // Допустимые категории в порядке кодов
	WithPhone     bool       // Добавлять телефон получателя в ответ
}

// Letter вид «письмо».
var Letter = Kind{
	Name:          "letter",
	Table:         "letters",
	AmountField:   "weight",
	AmountMessage: "Вес письма должно быть более 1 г.",
	Categories: []Category{
		{Code: 1, Label: "Письмо"},
		{Code: 2, Label: "Заказное письмо"},
		{Code: 3, Label: "Ценное письмо"},
		{Code: 4, Label: "Экспресс-письмо"},
	},
}

// Package вид «посылка».
var Package = Kind{
	Name:          "package",
	Table:         "packages",
	AmountField:   "cost",
	AmountMessage: "Сумма платежа должна быть более 1 руб.",
	Categories: []Category{
		{Code: 1, Label: "Мелкий пакет"},
		{Code: 2, Label: "Посылка"},
		{Code: 3, Label: "Посылка 1 класса"},
		{Code: 4, Label: "Ценная посылка"},
		{Code: 5, Label: "Посылка международная"},
		{Code: 6, Label: "Экспресс-посылка"},
	},
	WithPhone: true,
}

// Label возвращает подпись категории по коду.
func (k Kind) Label(code int) (string, bool) {
	for _, c := range k.Categories {
		if c.Code == code {
			return c.Label, true
		}
	}
	return "", false
}

// ResponseFields возвращает имена полей ответа в порядке вывода.
func (k Kind) ResponseFields() []string {
	fields := []string{
		"id", "sender", "recipient", "departure_office", "arrival_office",
		"departure_index", "arrival_index",
	}
	if k.WithPhone {
		fields = append(fields, "phone_number")
	}
	return append(fields, "category", k.AmountField)
}

// writableFields возвращает поля, принимаемые на запись.
func (k Kind) writableFields() []string {
	return []string{"sender", "recipient", "departure_office", "arrival_office", "category", k.AmountField}
}
