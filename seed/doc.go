// Package seed runs the seeding pipeline: split a loaded document, embed each
// chunk, and replace the contents of a document store with the results.
//
// Two modes are supported. ModeBatch embeds every chunk before touching the
// table, then deletes the old rows and inserts the new ones in batches of
// DefaultBatchSize. ModeStream deletes first and then embeds and inserts each
// chunk in turn, retrying a failed embedding once after DefaultRetryDelay and
// pausing DefaultInsertDelay between rows.
//
// In both modes a chunk that cannot be embedded aborts the run, while a
// failed insert is logged and skipped.
package seed
