// Package website heuristically extracts contact and business details from
// arbitrary company pages. Everything here is best-effort: third-party
// markup owes us nothing.
package website

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"strings"
	"time"

	"asnatlas/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

type Client struct {
	Http *resty.Client
}

func NewClient() (*Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 15)

	telemetry.InstrumentResty(client, "scrapers/website")

	return &Client{Http: client}, nil
}

// GetCompanyInfo fetches a company website and extracts whatever it can.
// It returns nil only when the page could not be retrieved at all.
func (c *Client) GetCompanyInfo(ctx context.Context, rawurl string) (*CompanyInfo, error) {
	if !strings.HasPrefix(rawurl, "http://") && !strings.HasPrefix(rawurl, "https://") {
		rawurl = "http://" + rawurl
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(rawurl)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", rawurl, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		// retrieved but unparseable still yields a mostly-empty result
		return &CompanyInfo{WebsiteURL: rawurl}, nil
	}
	info := ExtractCompanyInfo(doc, rawurl)
	return &info, nil
}
