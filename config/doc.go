// Package config loads fmtool configuration from YAML files, .env files and
// environment variables using Viper.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("fmtool", &cfg, config.WithConfigFile(path))
//
// Environment variables override file values. An env var such as
// LINEAGE_PATH is bound to every nested key it could name (lineage_path,
// lineage.path), so nested sections can be overridden without a prefix.
// With WithEnvPrefix("FMTOOL") only FMTOOL_-prefixed variables are bound and
// the prefix is stripped first.
package config
