// Package shopdal provides a thin convenience layer over an e-commerce
// platform's entity store: lookup/create/first-or-create helpers for
// reference data (taxes, manufacturers, categories, property groups and
// options, sales channels, countries, customer groups, payment methods,
// salutations) and a media ingestion helper that downloads or decodes
// images and registers them as media assets.
//
// The package owns no persistence or transport of its own. Entity reads
// and writes go through the Repository interface, stored bytes go through
// the FileStore interface, and remote images are fetched through the
// Fetcher interface. Implementations (memory, Postgres, filesystem, S3)
// are provided under subpackages.
//
// # First-or-create semantics
//
// FirstOrCreate* operations are a plain read-then-write: look up by the
// natural key, return the existing identifier, otherwise insert and return
// a new one. No lock is taken around the check-and-act sequence, so two
// concurrent callers with the same key can both create a record. Callers
// needing atomicity must serialize externally or rely on uniqueness
// constraints in the underlying store.
package shopdal
