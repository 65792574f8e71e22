package statshub

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"statshub-collector/lib/htmlutil"
	"statshub-collector/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/codes"
)

var fixturePathPattern = regexp.MustCompile(`/fixture/([^/]+)/(\d+)`)
var kickoffPattern = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)

// DiscoverMatches lists the fixtures the site shows under a date filter.
// The list occasionally renders empty on the first paint, so an empty read
// is retried once after a reload.
func (c *Client) DiscoverMatches(ctx context.Context, date DateFilter) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "client:DiscoverMatches")
	defer span.End()

	if err := c.OpenRoot(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open root failed")
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		if err := c.ApplyDateFilter(ctx, date); err != nil {
			nerr := &NavigationError{Stage: "date filter", Err: err}
			span.RecordError(nerr)
			span.SetStatus(codes.Error, "date filter failed")
			return nil, nerr
		}

		html, err := c.page.Content()
		if err != nil {
			nerr := &NavigationError{Stage: "read fixture list", Err: err}
			span.RecordError(nerr)
			span.SetStatus(codes.Error, "fixture list read failed")
			return nil, nerr
		}

		matches, err := parseFixtureList(html, c.opts.BaseUrl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fixture list parse failed")
			return nil, err
		}
		if len(matches) > 0 || attempt >= 1 {
			slog.DebugContext(ctx, "discovered fixtures", "date", date, "count", len(matches))
			return matches, nil
		}

		slog.DebugContext(ctx, "fixture list came back empty, reloading once", "date", date)
		if _, err := c.page.Reload(); err != nil {
			nerr := &NavigationError{Stage: "reload", Err: err}
			span.RecordError(nerr)
			span.SetStatus(codes.Error, "reload failed")
			return nil, nerr
		}
		c.settle(ctx, settleTimeout)
	}
}

// ExtractTeamTabs reads the team tab labels off an open match's stats
// panel. The site renders the home side first.
func (c *Client) ExtractTeamTabs(ctx context.Context) (first, second string, err error) {
	ctx, span := tracer.Start(ctx, "client:ExtractTeamTabs")
	defer span.End()

	labels, err := c.page.Locator(`[role="tab"]`).AllInnerTexts()
	if err != nil {
		serr := &SelectorNotFoundError{Kind: "team tabs", Want: "two team tabs", Err: err}
		span.RecordError(serr)
		span.SetStatus(codes.Error, "team tabs not readable")
		return "", "", serr
	}

	var cleaned []string
	for _, label := range labels {
		if label = strings.TrimSpace(label); label != "" {
			cleaned = append(cleaned, label)
		}
	}
	if len(cleaned) < 2 {
		serr := &SelectorNotFoundError{
			Kind:      "team tabs",
			Want:      "two team tabs",
			Available: cleaned,
		}
		span.RecordError(serr)
		span.SetStatus(codes.Error, "too few team tabs")
		return "", "", serr
	}
	return cleaned[0], cleaned[1], nil
}

// ResolveMatchTabs opens a discovered match and fills in the exact tab
// labels needed to flip between its teams.
func (c *Client) ResolveMatchTabs(ctx context.Context, m *Match) error {
	if err := c.OpenMatchURL(ctx, m.Url); err != nil {
		return err
	}
	first, second, err := c.ExtractTeamTabs(ctx)
	if err != nil {
		return err
	}
	m.HomeTab, m.AwayTab = matchTabLabels(m.HomeName, m.AwayName, first, second)
	return nil
}

// parseFixtureList pulls fixture descriptors out of a listing page.
// Duplicate anchors to the same fixture collapse to the first, keeping
// document order.
func parseFixtureList(html, baseUrl string) ([]Match, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &NavigationError{Stage: "parse fixture list", Err: err}
	}

	seen := map[string]struct{}{}
	var matches []Match
	for _, anchor := range htmlutil.GetAnchors(doc.Find(`a[href*="/fixture/"]`)) {
		groups := fixturePathPattern.FindStringSubmatch(anchor.Href)
		if groups == nil {
			continue
		}
		slug, id := groups[1], groups[2]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		home, away := teamsFromSlug(slug)
		matches = append(matches, Match{
			Url:      absoluteFixtureUrl(baseUrl, anchor.Href),
			Id:       id,
			HomeName: home,
			AwayName: away,
			Kickoff:  kickoffPattern.FindString(anchor.Text),
		})
	}
	return matches, nil
}

// teamsFromSlug splits "arsenal-vs-chelsea" into display names.
func teamsFromSlug(slug string) (home, away string) {
	parts := strings.SplitN(slug, "-vs-", 2)
	if len(parts) != 2 {
		return textutil.TitleFromSlug(slug), ""
	}
	return textutil.TitleFromSlug(parts[0]), textutil.TitleFromSlug(parts[1])
}

func absoluteFixtureUrl(baseUrl, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(baseUrl, "/") + "/" + strings.TrimPrefix(href, "/")
}

// matchTabLabels pairs slug-derived team names with the on-page tab
// labels. Jaro-Winkler similarity decides whether the tabs read in the
// same order as the slug; when the names give nothing to go on, tab order
// wins.
func matchTabLabels(homeName, awayName, firstTab, secondTab string) (homeTab, awayTab string) {
	if homeName == "" || awayName == "" {
		return firstTab, secondTab
	}
	direct := matchr.JaroWinkler(textutil.NormalizeName(homeName), textutil.NormalizeName(firstTab), false) +
		matchr.JaroWinkler(textutil.NormalizeName(awayName), textutil.NormalizeName(secondTab), false)
	swapped := matchr.JaroWinkler(textutil.NormalizeName(homeName), textutil.NormalizeName(secondTab), false) +
		matchr.JaroWinkler(textutil.NormalizeName(awayName), textutil.NormalizeName(firstTab), false)
	if swapped > direct {
		return secondTab, firstTab
	}
	return firstTab, secondTab
}

// PickMatch finds the discovered match best matching a user-supplied name,
// for collect-by-name flows. Exact substring beats similarity; similarity
// breaks ties.
func PickMatch(matches []Match, name string) (Match, bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	want := textutil.NormalizeName(name)
	best, bestScore := Match{}, 0.0
	for _, m := range matches {
		label := textutil.NormalizeName(m.Label())
		if want != "" && strings.Contains(label, want) {
			return m, true
		}
		score := matchr.JaroWinkler(want, label, false)
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	if bestScore < 0.5 {
		return Match{}, false
	}
	return best, true
}
