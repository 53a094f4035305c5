// Package bootstrap runs an fmtool command inside a uniform lifecycle.
//
// NewApp applies config defaults, validates, and initializes logging.
// RunTask then starts registered components, runs OnStart hooks, executes
// the task with SIGINT/SIGTERM cancellation, and shuts everything down
// again in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(telemetry)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return dispatcher.Run(ctx, order, execCtx)
//	})
package bootstrap
