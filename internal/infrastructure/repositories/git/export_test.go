package git

// LatestTagName exports latestTagName for testing.
var LatestTagName = latestTagName //nolint:gochecknoglobals // test export
