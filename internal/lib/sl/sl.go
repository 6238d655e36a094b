// Package sl содержит вспомогательные атрибуты для логгера slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки.
//
//	log.Error("failed to read letter", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Query возвращает группу "query" с текстом SQL-запроса и его аргументами.
func Query(sql string, args []any) slog.Attr {
	return slog.Group("query",
		slog.String("sql", sql),
		slog.Any("args", args),
	)
}
