package sentryotel

// Logger is the part of gofr's logging.Logger the bridge writes to.
// A *zap.SugaredLogger satisfies it as well.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}
