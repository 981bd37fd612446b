// Package store provides key-value stores for the viewer's persisted flags.
//
// [Memory] keeps values in a map and suits tests and hosts without storage.
// [SQLite] keeps values in a single table of a SQLite database:
//
//	kv, err := store.OpenSQLite("arview.db")
//	if err != nil { ... }
//	defer kv.Close()
//	show, err := arview.ShowInstructionsOnce(kv, view)
package store
