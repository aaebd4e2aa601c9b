package domain

import (
	"net/url"
	"sort"
	"strings"
)

// CleanText collapses runs of whitespace, including non-breaking spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// CanonicalURL strips tracking parameters and fragments from http(s) links so
// the same posting pasted twice reads the same. Anything that is not an
// absolute http(s) URL is returned trimmed and otherwise untouched.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return raw
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "trk" || lk == "refid" || lk == "trackingid" {
			q.Del(k)
		}
	}

	// LinkedIn search URLs only identify the posting by currentJobId.
	if strings.HasSuffix(u.Host, "linkedin.com") {
		keep := url.Values{}
		if v := q.Get("currentJobId"); v != "" {
			keep.Set("currentJobId", v)
		}
		q = keep
	}

	for k := range q {
		sort.Strings(q[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Normalize tidies free-text fields and links. Dates and paths are only
// trimmed.
func (f Fields) Normalize() Fields {
	return Fields{
		DateApplied: strings.TrimSpace(f.DateApplied),
		Company:     CleanText(f.Company),
		Position:    CleanText(f.Position),
		JobBoard:    CanonicalURL(f.JobBoard),
		Website:     CanonicalURL(f.Website),
		Resume:      strings.TrimSpace(f.Resume),
		CoverLetter: strings.TrimSpace(f.CoverLetter),
	}
}
