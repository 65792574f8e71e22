package collector

import (
	"fmt"
	"strings"
	"time"
)

// Summary renders the batch outcome as plain text, suitable for a final
// log block or a notification email body.
func (r BatchReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(
		&b, "collected %d/%d matches in %s\n",
		len(r.Succeeded), r.Total(), r.Duration.Round(time.Second),
	)

	for _, outcome := range r.Succeeded {
		if outcome.Skipped {
			fmt.Fprintf(&b, "  fresh  %s\n", outcome.Match.Label())
			continue
		}
		fmt.Fprintf(
			&b, "  ok     %s (%s)\n",
			outcome.Match.Label(), outcome.Result.Duration.Round(time.Second),
		)
	}
	for _, outcome := range r.Failed {
		fmt.Fprintf(&b, "  failed %s: %s\n", outcome.Match.Label(), outcome.Err)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
