package statshub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"statshub-collector/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// ErrDateNeedsBrowser is returned by the HTTP fallback for date filters a
// plain GET cannot honor. The date switcher is script-driven; the bare
// response only ever shows today's fixtures.
var ErrDateNeedsBrowser = errors.New("date filter requires a browser session")

// HttpDiscovery lists fixtures without a browser. It cannot open matches
// or read stats, but it is cheap enough to poll.
type HttpDiscovery struct {
	client  *resty.Client
	baseUrl string
}

func NewHttpDiscovery(baseUrl string) *HttpDiscovery {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	baseUrl = strings.TrimSuffix(baseUrl, "/")

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.SetTransport(cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport))
	restyutil.InstrumentClient(client, tracer, httpInstrumentOutput)

	return &HttpDiscovery{client: client, baseUrl: baseUrl}
}

// DiscoverMatches fetches today's fixture list over plain HTTP.
func (d *HttpDiscovery) DiscoverMatches(ctx context.Context, date DateFilter) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "http:DiscoverMatches")
	defer span.End()

	if date != DateToday {
		span.SetStatus(codes.Error, "unsupported date filter")
		return nil, ErrDateNeedsBrowser
	}

	res, err := d.client.R().SetContext(ctx).Get(d.baseUrl + "/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fixture list fetch failed")
		return nil, fmt.Errorf("fetch fixture list: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("fetch fixture list: status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "fixture list fetch failed")
		return nil, err
	}

	return parseFixtureList(res.String(), d.baseUrl)
}
