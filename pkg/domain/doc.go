// Package domain contains the core entities shared by the blocklist pipeline:
// normalized domain names, domain sets and the categories they are published
// under. The types here are free of any I/O so extractors, the builder and
// the publisher can all depend on them.
package domain
