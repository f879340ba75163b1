package website

import (
	"regexp"
	"strings"

	"asnatlas/lib/htmlutil"
	"asnatlas/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type CompanyInfo struct {
	WebsiteURL    string   `json:"website_url"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	ContactEmails []string `json:"contact_emails"`
	PhoneNumbers  []string `json:"phone_numbers"`
	Services      []string `json:"services"`
	Address       string   `json:"address,omitempty"`
}

const (
	maxEmails = 5
	maxPhones = 3
)

var emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// addresses that are never a human contact
var emailNoiseWords = []string{"noreply", "no-reply", "donotreply", "example"}

// NANP shape: optional +1, area code, exchange, line number
var phoneRegex = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)

var serviceKeywords = []string{
	"internet", "hosting", "cloud", "vpn", "fiber",
	"broadband", "datacenter", "colocation", "managed",
	"telecom", "telecommunications", "network", "connectivity",
	"wireless", "cable", "dsl", "dedicated", "bandwidth",
}

// structural selectors commonly used for postal addresses, in priority order
var addressSelectors = []string{
	"address", ".address", "#address",
	".contact-info", ".location", ".contact-address",
	`[itemtype*="PostalAddress"]`, ".footer-address",
}

var addressFallbackRegex = regexp.MustCompile(`(?i)\d+\s+\w+\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr)[,\s]+\w+`)

// ExtractCompanyInfo applies all heuristics to a parsed page. Fields that
// nothing matched stay absent; it never fails.
func ExtractCompanyInfo(doc *goquery.Document, url string) CompanyInfo {
	pageText := doc.Text()

	return CompanyInfo{
		WebsiteURL:    url,
		Title:         htmlutil.CleanInline(doc.Find("title").First().Text()),
		Description:   htmlutil.CleanInline(doc.Find(`meta[name="description"]`).First().AttrOr("content", "")),
		ContactEmails: extractEmails(pageText),
		PhoneNumbers:  extractPhones(pageText),
		Services:      extractServices(pageText),
		Address:       extractAddress(doc, pageText),
	}
}

func extractEmails(text string) []string {
	seen := map[string]bool{}
	var emails []string
	for _, email := range emailRegex.FindAllString(text, -1) {
		if seen[email] {
			continue
		}
		seen[email] = true
		if textutil.ContainsAny(email, emailNoiseWords) {
			continue
		}
		emails = append(emails, email)
		if len(emails) == maxEmails {
			break
		}
	}
	return emails
}

func extractPhones(text string) []string {
	seen := map[string]bool{}
	var phones []string
	for _, groups := range phoneRegex.FindAllStringSubmatch(text, -1) {
		phone := groups[1] + "-" + groups[2] + "-" + groups[3]
		if seen[phone] {
			continue
		}
		seen[phone] = true
		phones = append(phones, phone)
		if len(phones) == maxPhones {
			break
		}
	}
	return phones
}

func extractServices(text string) []string {
	text = strings.ToLower(text)
	var services []string
	for _, keyword := range serviceKeywords {
		if strings.Contains(text, keyword) {
			services = append(services, textutil.TitleWord(keyword))
		}
	}
	return services
}

func extractAddress(doc *goquery.Document, pageText string) string {
	for _, selector := range addressSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := htmlutil.CollapseWhitespace(sel.Text())
		if len(text) > 10 {
			return text
		}
	}

	if match := addressFallbackRegex.FindString(pageText); match != "" {
		return strings.TrimSpace(match)
	}
	return ""
}
