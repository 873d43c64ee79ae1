// Package watcher re-runs work when the transaction data file changes.
//
// The Watcher subscribes to filesystem events on the data file's directory
// (editors and atomic writers replace the file rather than write it in
// place, so watching the file itself would lose the subscription). Events
// for the data file are debounced; when the burst settles the handler runs
// once.
//
// Example usage:
//
//	w, err := watcher.New("transactions.json", func(ctx context.Context) error {
//		return reanalyze(ctx)
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
