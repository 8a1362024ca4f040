// Package logging provides structured logging with redaction of submitted values.
//
// The package wraps log/slog with JSON, text, and console output, context
// fields (request ID, form name, document source, trace and span IDs), and a
// Redactor that masks values that look like personal data before they reach
// the log.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//
//	ctx = logging.WithForm(logging.WithRequestID(ctx, id), "contact")
//	logger.InfoContext(ctx, "submission rejected",
//	    "errors", res.Len(),
//	    "payload", logger.Payload(payload), // email, phone, ... masked
//	)
//
// # Redaction
//
// Values are masked when their key contains a sensitive word (password,
// token, email, phone, card_number, ...) or their text matches one of the
// built-in patterns (emails, card numbers, phone numbers, bearer tokens).
// Extra keys and patterns come from configuration.
package logging
