// Package utils houses the ambient plumbing shared by vcstat commands: a
// ConfigurationLoader that layers embedded defaults, configuration files and
// VCSTAT_ environment variables through Viper, and a LoggerFactory that builds
// zap loggers writing to standard error.
package utils
