// Package metastore implements the Configuration collaborator the pool
// consults for whether a journal by a given name exists (when the name's
// pool entry is installed) and for the base directory its partitions live
// under (each time a reader is opened). Metadata is kept in a SQLite catalog, opened with
// the same WAL/busy-timeout pragmas the teacher uses for its own SQLite
// access, since both are single-writer embedded databases backing a
// process that cannot tolerate lock contention on the hot path.
package metastore
