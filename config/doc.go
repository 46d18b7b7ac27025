// Package config loads klog settings from a TOML file.
//
// Every field has a default, so an empty file (or no file) yields a
// working configuration. Durations are written as Go duration strings
// ("50ms", "5s"); overflow policies by name ("drop-newest",
// "drop-oldest", "block"). Unknown keys are rejected so that a typo does
// not silently fall back to a default.
//
//	[ring]
//	capacity = 4096
//
//	[console]
//	async = true
//	buffer_size = 1024
//	overflow_policy = "drop-oldest"
//	scrollback = 65536
//
//	[klogd]
//	read_size = 512
//	pause = "50ms"
//
//	[log]
//	level = "info"
package config
