package entities

// RunStage is a state in the update workflow. Stages are only ever entered in order.
type RunStage int

const (
	StageInit RunStage = iota
	StageCloned
	StageTagFetched
	StageDownloaded
	StageVerified
	StageDescriptorsUpdated
	StageCommitted
	StagePushed
	StageCleanedUp
	StageNotified
	StageDone
	StageUpToDate
	StageDryRun
)

var stageNames = map[RunStage]string{ //nolint:gochecknoglobals // lookup table
	StageInit:               "init",
	StageCloned:             "cloned",
	StageTagFetched:         "tag-fetched",
	StageDownloaded:         "downloaded",
	StageVerified:           "verified",
	StageDescriptorsUpdated: "descriptors-updated",
	StageCommitted:          "committed",
	StagePushed:             "pushed",
	StageCleanedUp:          "cleaned-up",
	StageNotified:           "notified",
	StageDone:               "done",
	StageUpToDate:           "up-to-date",
	StageDryRun:             "dry-run",
}

func (s RunStage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// RunReport summarises a finished (or aborted) run.
type RunReport struct {
	Stage        RunStage
	Tag          ReleaseTag
	Checksum     Checksum
	Commit       *Commit
	Notification NotificationResult
}
