package logger

import "log/slog"

// Error records a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Culture records a culture name under the key "culture".
func Culture(name string) slog.Attr {
	return slog.String("culture", name)
}

// CultureID records a culture identifier under the key "culture_id".
func CultureID(id uint32) slog.Attr {
	return slog.Uint64("culture_id", uint64(id))
}

// Resource records a resource name under the key "resource".
func Resource(name string) slog.Attr {
	return slog.String("resource", name)
}

// Quality records a translation quality grade under the key "quality".
func Quality(q any) slog.Attr {
	return slog.Any("quality", q)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
