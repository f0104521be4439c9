// Package log builds the slog loggers used by quotescrape.
//
// Loggers returned by NewLogger wrap their handler in a RedactHandler, which
// masks attributes whose key names a credential (cookie, authorization,
// token, ...) and every occurrence of configured secret values, such as the
// cookie and extra headers passed on the command line.
//
//	logger := log.NewLogger(os.Stderr, verbose, log.WithSecrets(cfg.SensitiveValues()...))
//	slog.SetDefault(logger)
package log
