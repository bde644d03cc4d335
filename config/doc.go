/*
Package config holds the command line and file configuration of the filter
chains: the application log, the metrics backends and the pipelines that
the chains are built from.

The values are taken from the flags, from an optional YAML file given with
-config-file, and the flags take precedence over the file.
*/
package config
