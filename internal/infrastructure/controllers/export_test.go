package controllers

// PrintReports exports printReports for testing.
var PrintReports = printReports //nolint:gochecknoglobals // test export

// Truncate exports truncate for testing.
var Truncate = truncate //nolint:gochecknoglobals // test export

// LogRateLimits exports logRateLimits for testing.
var LogRateLimits = logRateLimits //nolint:gochecknoglobals // test export
