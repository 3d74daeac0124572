// Package eutils is a small client for the NCBI E-utilities ELink endpoint, used to
// find the GEO datasets cited by PubMed articles.
package eutils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable wraps transport failures and non-2xx responses.
var ErrUnavailable = errors.New("eutils: service unavailable")

const (
	seriesUIDBase   = 200000000
	platformUIDBase = 100000000
	sampleUIDBase   = 300000000

	maxResponseBytes = 8 << 20
)

// HTTPDoer describes the HTTP client used by the E-utilities client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config captures ELink request settings.
type Config struct {
	BaseURL string
	Tool    string
	Email   string
	APIKey  string
	Timeout time.Duration
}

// Client issues ELink requests.
type Client struct {
	baseURL string
	tool    string
	email   string
	apiKey  string
	client  HTTPDoer
}

// NewClient builds a client; a nil doer gets an http.Client bounded by cfg.Timeout.
func NewClient(cfg Config, doer HTTPDoer) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("eutils: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("eutils: parse base url: %w", err)
	}
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: base,
		tool:    strings.TrimSpace(cfg.Tool),
		email:   strings.TrimSpace(cfg.Email),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  doer,
	}, nil
}

type elinkResponse struct {
	LinkSets []struct {
		LinkSetDBs []struct {
			DBTo     string   `json:"dbto"`
			LinkName string   `json:"linkname"`
			Links    []string `json:"links"`
		} `json:"linksetdbs"`
	} `json:"linksets"`
}

// LinkedGEOUIDs returns the gds UIDs linked to the given PubMed IDs, in ascending order.
func (c *Client) LinkedGEOUIDs(ctx context.Context, pubmedIDs []int64) ([]int64, error) {
	if len(pubmedIDs) == 0 {
		return []int64{}, nil
	}

	ids := make([]string, len(pubmedIDs))
	for i, id := range pubmedIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	params := url.Values{}
	params.Set("dbfrom", "pubmed")
	params.Set("db", "gds")
	params.Set("linkname", "pubmed_gds")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")
	if c.tool != "" {
		params.Set("tool", c.tool)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	// POST keeps long id lists out of the URL.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/elink.fcgi", strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("eutils: build elink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: elink returned %d", ErrUnavailable, resp.StatusCode)
	}

	var payload elinkResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("eutils: decode elink response: %w", err)
	}

	seen := make(map[int64]struct{})
	uids := make([]int64, 0)
	for _, set := range payload.LinkSets {
		for _, db := range set.LinkSetDBs {
			if db.LinkName != "" && db.LinkName != "pubmed_gds" {
				continue
			}
			for _, raw := range db.Links {
				uid, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("eutils: invalid gds uid %q", raw)
				}
				if _, ok := seen[uid]; ok {
					continue
				}
				seen[uid] = struct{}{}
				uids = append(uids, uid)
			}
		}
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	return uids, nil
}

// AccessionForUID maps a gds UID to a GEO accession. Series UIDs (2xxxxxxxx) become
// GSE accessions and curated dataset UIDs become GDS; platform and sample UIDs are
// not dataset rows and report false.
func AccessionForUID(uid int64) (string, bool) {
	switch {
	case uid <= 0:
		return "", false
	case uid < platformUIDBase:
		return "GDS" + strconv.FormatInt(uid, 10), true
	case uid < seriesUIDBase:
		return "", false
	case uid < sampleUIDBase:
		return "GSE" + strconv.FormatInt(uid-seriesUIDBase, 10), true
	default:
		return "", false
	}
}
