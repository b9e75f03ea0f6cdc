package service

// MetricsRecorder counts sync and token lifecycle outcomes.
type MetricsRecorder interface {
	SyncFinished(outcome string)
	ReviewsMerged(action string, count int)
	TokenRefreshed(outcome string)
	UpstreamFailed(surface string)
	ReplyChanged(action string)
}
