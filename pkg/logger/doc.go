// Package logger builds configured slog loggers and provides attribute
// helpers for the recurring globalization log fields.
//
// Basic usage:
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithTextFormatter(),
//	)
//	log.Info("translation installed",
//		logger.Culture("fr-fr"),
//		logger.Resource("Greet"),
//	)
//
// Context extractors inject request-scoped values, such as the current
// culture, into every record logged with that context:
//
//	log := logger.New(
//		logger.WithContextValue("culture", cultureKey),
//	)
package logger
