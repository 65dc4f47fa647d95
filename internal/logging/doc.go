// Package logging provides structured logging helpers for the scholar server.
//
// Everything logs through log/slog. The helpers here keep attribute names
// consistent across packages and keep personal data out of the logs:
// attendee email addresses are only ever written as short hashes.
//
// Create the process logger once and derive scoped loggers from it:
//
//	logger := logging.New(os.Stderr, debug)
//	calLogger := logging.WithService(logger, "calendar")
//	calLogger.Info("attendee added",
//	    logging.Operation("update_event"),
//	    logging.UserHash(email))
//
// Logs always go to stderr. On the stdio transport stdout carries the MCP
// protocol stream and must not be written to.
package logging
