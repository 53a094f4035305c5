// Package dispatchtest provides test helpers for code built on
// package dispatch.
//
// Example:
//
//	func TestMyRun(t *testing.T) {
//	    journal := dispatchtest.NewJournal()
//	    reg := dispatch.NewRegistry()
//	    _ = reg.Register("ALPHA", journal.Handler("ALPHA", nil))
//	    _ = reg.Register("BETA", journal.Handler("BETA", errors.New("boom")))
//
//	    rc := dispatchtest.NewRecordingContext()
//	    _, err := dispatch.New(reg, dispatch.WithLogger(rc.Logger())).
//	        Run(context.Background(), []string{"ALPHA", "BETA"}, rc)
//	    // journal.Calls() == []string{"ALPHA", "BETA"}
//	}
package dispatchtest
