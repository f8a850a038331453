// Package dataset unifies the long-format GBD exports into one wide table.
//
// Every risk category, both disease measures and the region map are joined
// on (location, sex, year) with inner joins only: a tuple reaches the table
// only when every source observes it. The joins are expressed as a fold
// over Relations with Join, which is associative and commutative as long as
// each relation has unique keys. Unify checks that precondition and reports
// any violation as a DataIntegrityError; it never returns a partial table.
//
// The resulting Table is immutable and safe to share between goroutines.
package dataset
