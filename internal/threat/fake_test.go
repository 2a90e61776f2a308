package threat

import (
	"context"
	"encoding/json"

	"threatscope/internal/common"
	"threatscope/internal/geo"
	"threatscope/internal/upstream"
)

type fakeSources struct {
	host   func(ctx context.Context, ip string) (*upstream.HostInfo, error)
	sum    func(ctx context.Context, ip string) (*upstream.VulnSummary, error)
	report func(ctx context.Context, ip string) (upstream.VulnReport, error)
}

func (f *fakeSources) HostInfo(ctx context.Context, ip string) (*upstream.HostInfo, error) {
	return f.host(ctx, ip)
}

func (f *fakeSources) VulnSummary(ctx context.Context, ip string) (*upstream.VulnSummary, error) {
	return f.sum(ctx, ip)
}

func (f *fakeSources) VulnReport(ctx context.Context, ip string) (upstream.VulnReport, error) {
	return f.report(ctx, ip)
}

func exampleSources() *fakeSources {
	return &fakeSources{
		host: func(context.Context, string) (*upstream.HostInfo, error) {
			return &upstream.HostInfo{
				Org: "ExampleOrg",
				Data: []upstream.Banner{
					{Location: &upstream.Location{CountryName: "US", City: "LA"}, Product: "nginx"},
				},
			}, nil
		},
		sum: func(context.Context, string) (*upstream.VulnSummary, error) {
			return &upstream.VulnSummary{Ports: []int{22, 80}, Vulns: []string{}}, nil
		},
		report: func(context.Context, string) (upstream.VulnReport, error) {
			return json.RawMessage(`{"ok":true}`), nil
		},
	}
}

func transportErr(src common.Source) error {
	return &upstream.TransportError{Source: src, StatusCode: 500, Err: context.DeadlineExceeded}
}

type fakeLocator struct {
	place geo.Place
	err   error
	panic bool
}

func (f *fakeLocator) Lookup(string) (geo.Place, error) {
	if f.panic {
		panic("locator exploded")
	}
	return f.place, f.err
}
