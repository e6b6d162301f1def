// Package runlog persists search run summaries in SQLite.
//
// Store is a thin layer over database/sql with the pure-Go modernc.org/sqlite
// driver. Recorder adapts a Store to session.Recorder: summaries are queued
// on a buffered channel and written by a single background goroutine, so the
// session lock is never held across a database write. When the queue is full
// new summaries are dropped.
//
//	st, _ := runlog.Open("runs.db")
//	rec := runlog.NewRecorder(st)
//	sess, _ := session.New(cfg, session.WithRecorder(rec))
//	...
//	rec.Close() // drains the queue
//	st.Close()
package runlog
