package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/letters-packages/internal/models"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

// Сообщения для ограничений, которые не должны срабатывать после валидации,
// но проверяются хранилищем независимо от неё.
var checkMessages = map[string]string{
	"letters_sender_recipient_differ":  shipment.MsgSameClients,
	"packages_sender_recipient_differ": shipment.MsgSameClients,
	"letters_offices_differ":           shipment.MsgSameOffices,
	"packages_offices_differ":          shipment.MsgSameOffices,
	"clients_phone_number_format":      "Введите номер телефона в формате +7XXXXXXXXXX",
	"post_offices_postal_index_format": "Введите почтовый индекс из шести цифр",
	"letters_weight_positive":          shipment.Letter.AmountMessage,
	"packages_cost_positive":           shipment.Package.AmountMessage,
}

// isRetriable сообщает, что ошибка вызвана недоступностью соединения.
func isRetriable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code)
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// constraintError превращает нарушения ограничений в *models.ValidationError.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	verr := models.NewValidationError()
	switch pgErr.Code {
	case pgerrcode.CheckViolation:
		msg, ok := checkMessages[pgErr.ConstraintName]
		if !ok {
			msg = "Нарушено ограничение " + pgErr.ConstraintName
		}
		verr.AddNonField(msg)
	case pgerrcode.ForeignKeyViolation:
		verr.AddNonField("Связанный объект не существует.")
	case pgerrcode.StringDataRightTruncationDataException:
		verr.AddNonField("Значение слишком длинное.")
	default:
		return err
	}
	return fmt.Errorf("%w (%s)", verr, pgErr.Message)
}
