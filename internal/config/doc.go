// Package config holds the settings of a quotescrape run: target URLs,
// output paths, HTTP client limits, egress and history options.
// Values come from defaults, an optional YAML file and CLI flags, in
// increasing order of precedence.
package config
