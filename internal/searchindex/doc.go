// Package searchindex stores the site search index: one record per CMS item
// or crawled static page, persisted in SQLite and read back as immutable
// snapshots in the order the indexer produced them.
package searchindex
