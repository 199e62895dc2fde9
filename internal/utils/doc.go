// Package utils carries the ambient plumbing shared by every depdoctor
// command: the viper-backed ConfigurationLoader, the zap LoggerFactory with
// its optional rotating file sink, typed command-context accessors, and the
// flush-on-write output wrapper.
package utils
