// Package slack posts run summaries to the configured channel so the
// accreditation team hears about missing data without opening log files.
package slack

import (
	"fmt"

	"github.com/slack-go/slack"
)

type Notifier struct {
	api     *slack.Client
	channel string
}

func NewNotifier(token, channelID string) *Notifier {
	return &Notifier{api: slack.New(token), channel: channelID}
}

// PostRunSummary sends the run counters plus an optional narrative block.
func (n *Notifier) PostRunSummary(summary, narrative string) error {
	msg := summary
	if narrative != "" {
		msg += "\n\n" + narrative
	}
	_, _, err := n.api.PostMessage(n.channel, slack.MsgOptionText(msg, false))
	if err != nil {
		return fmt.Errorf("post run summary: %w", err)
	}
	return nil
}
