package test

import (
	"os"

	logging "github.com/inconshreveable/log15"
)

// LogHandler returns the handler for test logging; set
// `GOVERN_LOG_HANDLER=stdout` to see the logs.
func LogHandler() logging.Handler {
	handlers := map[string]func() logging.Handler{
		"null": func() logging.Handler {
			return logging.DiscardHandler()
		},
		"stdout": func() logging.Handler {
			return logging.CallerStackHandler("%+v", logging.StdoutHandler)
		},
	}

	handler := handlers["null"]
	if h, ok := handlers[os.Getenv("GOVERN_LOG_HANDLER")]; ok {
		handler = h
	}

	return handler()
}
