// Package runstore persists batch run history in SQLite.
//
// Every batch records one run row plus one row per dataset item with its
// outcome: processed, skipped by the annotated-beats rule, or failed with the
// underlying cause. The store is what lets a batch report exactly which items
// failed without aborting the others, and it backs the `chorus runs` command.
//
// Opening the store also takes a file lock next to the database so two
// concurrent batch invocations cannot interleave writes into the same
// estimations tree.
package runstore
