// Package audit keeps a log of /api/ask outcomes.
//
// Each completed request produces one Record: which model answered (or the
// error category), how many upstream attempts were made and how long it
// took. Questions and answers are never stored.
//
// Records are queued on a Recorder and written by a background worker to a
// Storage backend (see the storage subpackage). The retention subpackage
// prunes old records on a cron schedule, and export renders records for the
// command line.
//
//	store, _ := storage.Open(&cfg.Audit)
//	rec := audit.NewRecorder(store, audit.RecorderConfig{BufferSize: cfg.Audit.BufferSize})
//	defer rec.Close()
//	rec.Record(ctx, &audit.Record{RequestID: id, ModelUsed: model, Status: 200})
package audit
