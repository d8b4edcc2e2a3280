package controllers

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

//nolint:gochecknoglobals // shared output colors
var (
	successColor = color.New(color.FgGreen)
	skippedColor = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed, color.Bold)
)

// WriteSummary prints the one-line outcome of a run.
func WriteSummary(w io.Writer, target *entities.PackageTarget, report *entities.RunReport, runErr error) {
	if report == nil {
		report = &entities.RunReport{}
	}
	tag := report.Tag.Name
	if tag == "" {
		tag = "-"
	}

	switch {
	case runErr != nil:
		failureColor.Fprintf(w, "✗ %s %s failed after stage %s: %v\n", target.Package, tag, report.Stage, runErr)
	case report.Stage == entities.StageUpToDate:
		skippedColor.Fprintf(w, "= %s is already at %s\n", target.Package, tag)
	case report.Stage == entities.StageDryRun:
		skippedColor.Fprintf(w, "~ [DRY RUN] %s would be updated to %s\n", target.Package, tag)
	case report.Commit != nil && report.Notification.Attempted && !report.Notification.Delivered:
		warningColor.Fprintf(w, "⚠ %s updated to %s in %s, email not sent: %v\n",
			target.Package, tag, shortHash(report.Commit.Hash), report.Notification.Err)
	case report.Commit != nil && report.Notification.Delivered:
		successColor.Fprintf(w, "✓ %s updated to %s in %s\n", target.Package, tag, shortHash(report.Commit.Hash))
	case report.Commit != nil:
		warningColor.Fprintf(w, "⚠ %s updated to %s in %s, email not attempted\n",
			target.Package, tag, shortHash(report.Commit.Hash))
	default:
		_, _ = fmt.Fprintf(w, "%s finished at stage %s\n", target.Package, report.Stage)
	}
}

func shortHash(hash string) string {
	const size = 12
	if len(hash) > size {
		return hash[:size]
	}
	return hash
}
