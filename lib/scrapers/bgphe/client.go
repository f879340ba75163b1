// Package bgphe scrapes per-ASN routing metadata from bgp.he.net.
package bgphe

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"asnatlas/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://bgp.he.net"

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseURL
	BaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseURL
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetTimeout(time.Second * 10)

	telemetry.InstrumentResty(client, "scrapers/bgphe")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// GetRoutingInfo fetches the AS info page and extracts whatever fields it
// carries. A failed fetch returns an error; a fetched but unexpected page
// degrades to a RoutingInfo holding only the ASN.
func (c *Client) GetRoutingInfo(ctx context.Context, asn string) (RoutingInfo, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/AS%s", asn))
	if err != nil {
		return RoutingInfo{ASN: asn}, err
	}
	if res.IsError() {
		return RoutingInfo{ASN: asn}, fmt.Errorf("fetch AS%s: status %d", asn, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return RoutingInfo{ASN: asn}, nil
	}
	return ExtractRoutingInfo(doc, asn), nil
}
