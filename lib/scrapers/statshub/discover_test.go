package statshub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureListPage = `<html><body>
<div class="fixtures">
	<a href="/fixture/arsenal-vs-chelsea/12345"><span>19:30</span> Arsenal - Chelsea</a>
	<a href="/fixture/arsenal-vs-chelsea/12345">lineups</a>
	<a href="/fixture/st-mirren-vs-celtic/67890">15:00 St Mirren - Celtic</a>
	<a href="/news/deadline-day">deadline day live</a>
	<a href="/fixture/malformed">broken</a>
</div>
</body></html>`

func TestParseFixtureList(t *testing.T) {
	matches, err := parseFixtureList(fixtureListPage, "https://www.statshub.com")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	require.Equal(t, "https://www.statshub.com/fixture/arsenal-vs-chelsea/12345", matches[0].Url)
	require.Equal(t, "12345", matches[0].Id)
	require.Equal(t, "Arsenal", matches[0].HomeName)
	require.Equal(t, "Chelsea", matches[0].AwayName)
	require.Equal(t, "19:30", matches[0].Kickoff)

	require.Equal(t, "67890", matches[1].Id)
	require.Equal(t, "St Mirren", matches[1].HomeName)
	require.Equal(t, "Celtic", matches[1].AwayName)
	require.Equal(t, "15:00", matches[1].Kickoff)
}

func TestParseFixtureListEmpty(t *testing.T) {
	matches, err := parseFixtureList("<html><body>maintenance</body></html>", DefaultBaseUrl)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestTeamsFromSlug(t *testing.T) {
	home, away := teamsFromSlug("arsenal-vs-chelsea")
	require.Equal(t, "Arsenal", home)
	require.Equal(t, "Chelsea", away)

	home, away = teamsFromSlug("st-mirren-vs-real-madrid")
	require.Equal(t, "St Mirren", home)
	require.Equal(t, "Real Madrid", away)

	home, away = teamsFromSlug("friendly-exhibition")
	require.Equal(t, "Friendly Exhibition", home)
	require.Empty(t, away)
}

func TestMatchTabLabels(t *testing.T) {
	home, away := matchTabLabels("Arsenal", "Chelsea", "Arsenal", "Chelsea")
	require.Equal(t, "Arsenal", home)
	require.Equal(t, "Chelsea", away)

	// tabs rendered in the opposite order of the URL slug
	home, away = matchTabLabels("Arsenal", "Chelsea", "Chelsea", "Arsenal")
	require.Equal(t, "Arsenal", home)
	require.Equal(t, "Chelsea", away)

	// abbreviated tab labels still pair up
	home, away = matchTabLabels("Manchester United", "Newcastle", "Man Utd", "Newcastle")
	require.Equal(t, "Man Utd", home)
	require.Equal(t, "Newcastle", away)

	// nothing to go on: tab order wins
	home, away = matchTabLabels("", "", "First", "Second")
	require.Equal(t, "First", home)
	require.Equal(t, "Second", away)
}

func TestPickMatch(t *testing.T) {
	matches, err := parseFixtureList(fixtureListPage, DefaultBaseUrl)
	require.NoError(t, err)

	picked, ok := PickMatch(matches, "celtic")
	require.True(t, ok)
	require.Equal(t, "67890", picked.Id)

	picked, ok = PickMatch(matches, "Arsenal vs Chelsea")
	require.True(t, ok)
	require.Equal(t, "12345", picked.Id)

	_, ok = PickMatch(matches, "zzzz")
	require.False(t, ok)

	_, ok = PickMatch(nil, "arsenal")
	require.False(t, ok)
}

func TestHttpDiscovery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureListPage))
	}))
	defer server.Close()

	d := NewHttpDiscovery(server.URL)
	matches, err := d.DiscoverMatches(context.Background(), DateToday)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, server.URL+"/fixture/arsenal-vs-chelsea/12345", matches[0].Url)
}

func TestHttpDiscoveryRejectsTomorrow(t *testing.T) {
	d := NewHttpDiscovery("")
	_, err := d.DiscoverMatches(context.Background(), DateTomorrow)
	require.ErrorIs(t, err, ErrDateNeedsBrowser)
}

func TestHttpDiscoveryStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewHttpDiscovery(server.URL)
	_, err := d.DiscoverMatches(context.Background(), DateToday)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestMatchLabel(t *testing.T) {
	m := Match{HomeName: "Arsenal", AwayName: "Chelsea"}
	require.Equal(t, "Arsenal vs Chelsea", m.Label())

	m = Match{HomeTab: "Arsenal", AwayTab: "Chelsea"}
	require.Equal(t, "Arsenal vs Chelsea", m.Label())

	m = Match{Url: "https://www.statshub.com/fixture/a-vs-b/1"}
	require.Equal(t, m.Url, m.Label())
}
