package entities

import (
	"fmt"
	"time"
)

const notificationDateLayout = "2006-01-02"

// Notification is a plain-text email announcing a published update.
type Notification struct {
	Sender      string
	Destination string
	Subject     string
	Body        string
}

// NotificationResult is the outcome of a delivery attempt. A failed delivery is
// reported here instead of failing the run.
type NotificationResult struct {
	Attempted bool
	Delivered bool
	Err       error
}

// NewNotification renders the update email for a commit.
func NewNotification(
	target *PackageTarget,
	tag ReleaseTag,
	commit Commit,
	commitWebURL string,
	sender, destination string,
	now time.Time,
) Notification {
	date := now.Format(notificationDateLayout)
	body := fmt.Sprintf(
		"%s has been updated to %s on %s!\n\nCommit id: %s\nGitLab link: %s\n",
		target.Package, tag.Name, date, commit.Hash, commit.WebURL(commitWebURL),
	)
	return Notification{
		Sender:      sender,
		Destination: destination,
		Subject:     fmt.Sprintf("%s %s update %s (%s)", target.Distro, target.Package, tag.Name, date),
		Body:        body,
	}
}
