// Package governor controls when a wrapped function actually runs relative
// to a stream of calls.
//
// Two policies are provided:
//   - NewDebounced: run only after a quiet period, optionally on the leading
//     edge, optionally at least once every maxWait.
//   - NewThrottled: run at most once per window.
//
// Both keep a single pending timer and the most recent call's argument and
// context. The decision logic is a pure state machine driven by the current
// time; wrappers apply its plans to a Clock. Pass a Clock with WithClock to
// run on an event loop (see package eventloop) or on virtual time in tests.
//
// Example:
//
//	save, err := governor.NewDebounced(func(ctx context.Context, doc Doc) (int, error) {
//	    return store.Save(ctx, doc)
//	}, 200*time.Millisecond, governor.WithMaxWait(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer save.Cancel()
//
//	save.Call(ctx, doc)
package governor
