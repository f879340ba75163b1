package bgphe

import (
	"regexp"
	"strconv"
	"strings"

	"asnatlas/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// RoutingInfo is what a single AS info page yields. Every field except the
// ASN is optional: nil/empty means the page did not carry it.
type RoutingInfo struct {
	ASN                   string   `json:"asn"`
	CompanyWebsite        string   `json:"company_website,omitempty"`
	LookingGlass          string   `json:"looking_glass,omitempty"`
	Country               string   `json:"country,omitempty"`
	PrefixesOriginatedAll *int     `json:"prefixes_originated_all,omitempty"`
	PrefixesOriginatedV4  *int     `json:"prefixes_originated_v4,omitempty"`
	PrefixesOriginatedV6  *int     `json:"prefixes_originated_v6,omitempty"`
	RPKIValidAll          *int     `json:"rpki_valid_all,omitempty"`
	RPKIInvalidAll        *int     `json:"rpki_invalid_all,omitempty"`
	BGPPeersObservedAll   *int     `json:"bgp_peers_observed_all,omitempty"`
	IPsOriginatedV4       *int     `json:"ips_originated_v4,omitempty"`
	AvgPathLengthAll      *float64 `json:"avg_path_length_all,omitempty"`
}

// label wording must match the page verbatim, including punctuation
var intPatterns = []struct {
	re     *regexp.Regexp
	assign func(info *RoutingInfo, v int)
}{
	{
		re:     regexp.MustCompile(`Prefixes Originated \(all\):\s*(\d+)`),
		assign: func(info *RoutingInfo, v int) { info.PrefixesOriginatedAll = &v },
	},
	{
		re:     regexp.MustCompile(`Prefixes Originated \(v4\):\s*(\d+)`),
		assign: func(info *RoutingInfo, v int) { info.PrefixesOriginatedV4 = &v },
	},
	{
		re:     regexp.MustCompile(`Prefixes Originated \(v6\):\s*(\d+)`),
		assign: func(info *RoutingInfo, v int) { info.PrefixesOriginatedV6 = &v },
	},
	{
		re:     regexp.MustCompile(`RPKI Originated Valid \(all\):\s*(\d+)`),
		assign: func(info *RoutingInfo, v int) { info.RPKIValidAll = &v },
	},
	{
		re:     regexp.MustCompile(`RPKI Originated Invalid \(all\):\s*(\d+)`),
		assign: func(info *RoutingInfo, v int) { info.RPKIInvalidAll = &v },
	},
	{
		re:     regexp.MustCompile(`BGP Peers Observed \(all\):\s*(\d+)`),
		assign: func(info *RoutingInfo, v int) { info.BGPPeersObservedAll = &v },
	},
	{
		re:     regexp.MustCompile(`IPs Originated \(v4\):\s*([\d,]+)`),
		assign: func(info *RoutingInfo, v int) { info.IPsOriginatedV4 = &v },
	},
}

var avgPathLengthRegex = regexp.MustCompile(`Average AS Path Length \(all\):\s*([\d.]+)`)

// ExtractRoutingInfo pulls the fixed field set out of an AS info page.
// Fields are extracted independently; whatever is missing stays absent.
func ExtractRoutingInfo(doc *goquery.Document, asn string) RoutingInfo {
	info := RoutingInfo{ASN: asn}

	info.CompanyWebsite = htmlutil.FirstHTTPLink(doc)
	info.Country = htmlutil.FirstImageAlt(doc)
	info.LookingGlass = lookingGlassLink(doc)

	text := doc.Text()
	for _, p := range intPatterns {
		groups := p.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		v, err := strconv.Atoi(strings.ReplaceAll(groups[1], ",", ""))
		if err != nil {
			continue
		}
		p.assign(&info, v)
	}
	if groups := avgPathLengthRegex.FindStringSubmatch(text); groups != nil {
		v, err := strconv.ParseFloat(groups[1], 64)
		if err == nil {
			info.AvgPathLengthAll = &v
		}
	}

	return info
}

// the looking glass URL sits in a table row labeled "Looking Glass"
func lookingGlassLink(doc *goquery.Document) string {
	href := ""
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := strings.TrimSpace(row.Find("td,th").First().Text())
		if label != "Looking Glass" {
			return true
		}
		target := row.Find("a[href]").First().AttrOr("href", "")
		if target != "" {
			href = target
			return false
		}
		return true
	})
	return href
}
