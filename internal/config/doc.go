// Package config loads a pool configuration File from YAML, the on-disk
// counterpart to the functional options the root package also accepts.
// Operators who run many pools from a fleet management tool can check a
// config file into version control instead of wiring up Option values in
// code.
package config
