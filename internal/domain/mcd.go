package domain

import (
	"regexp"
	"strconv"
)

// watchProbRe matches the watch-issuance probability line of a mesoscale
// discussion, e.g. "Probability of Watch Issuance...80 percent".
var watchProbRe = regexp.MustCompile(`(?i)probability of watch issuance\s*[.:]*\s*(\d{1,3})\s*percent`)

// Discussion is one active mesoscale discussion's free text.
type Discussion struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// ExtractDiscussionFacts scrapes the watch-issuance probability from
// active discussions and keeps the highest. Free-text scraping is
// best-effort: discussions with no parseable probability contribute
// nothing, and an empty result leaves the fact nil.
func ExtractDiscussionFacts(discussions []Discussion) DiscussionFacts {
	var facts DiscussionFacts
	for _, d := range discussions {
		p, ok := parseWatchProbability(d.Text)
		if !ok {
			continue
		}
		if facts.WatchProbability == nil || p > *facts.WatchProbability {
			facts.WatchProbability = &p
		}
	}
	return facts
}

func parseWatchProbability(text string) (int, bool) {
	m := watchProbRe.FindStringSubmatch(text)
	if len(m) != 2 {
		return 0, false
	}
	p, err := strconv.Atoi(m[1])
	if err != nil || p < 0 || p > 100 {
		return 0, false
	}
	return p, true
}
