package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

const codeforcesPlatform = "Codeforces"

// divisionPatterns is the ordered classification table for Codeforces
// contest names. First match wins; Educational rounds are grouped with the
// Div2 audience on purpose.
var divisionPatterns = []struct {
	substr   string
	category string
}{
	{"div. 1", "Div1"},
	{"div. 2", "Div2"},
	{"div. 3", "Div3"},
	{"div. 4", "Div4"},
	{"educational", "Div2"},
}

// ClassifyContestName maps a contest name to its category name. Names with
// no recognized marker fall back to Other.
func ClassifyContestName(name string) string {
	lower := strings.ToLower(name)
	for _, p := range divisionPatterns {
		if strings.Contains(lower, p.substr) {
			return p.category
		}
	}
	return "Other"
}

// contestList mirrors the shape of the Codeforces contest.list response.
type contestList struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		ID               int64  `json:"id"`
		Name             string `json:"name"`
		Phase            string `json:"phase"`
		StartTimeSeconds int64  `json:"startTimeSeconds"`
		DurationSeconds  int64  `json:"durationSeconds"`
	} `json:"result"`
}

// CodeforcesClient fetches and normalizes the Codeforces contest list.
type CodeforcesClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewCodeforcesClient builds a client against baseURL (e.g.
// "https://codeforces.com/api") with a bounded request timeout so a hung
// source cannot stall an aggregation run.
func NewCodeforcesClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *CodeforcesClient {
	return &CodeforcesClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name implements Source.
func (c *CodeforcesClient) Name() string {
	return codeforcesPlatform
}

// FetchUpcoming implements Source. It calls contest.list once and keeps
// contests that are both marked not-yet-started and strictly in the future,
// which defends against entries the source forgot to flip to a running
// phase. Retrying is the caller's concern.
func (c *CodeforcesClient) FetchUpcoming(ctx context.Context, now time.Time) ([]Record, error) {
	url := c.baseURL + "/contest.list"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.FetchError{Source: codeforcesPlatform, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{Source: codeforcesPlatform, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &types.FetchError{
			Source: codeforcesPlatform,
			Err:    fmt.Errorf("unexpected HTTP status %d", resp.StatusCode),
		}
	}

	var payload contestList
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &types.ParseError{Source: codeforcesPlatform, Err: err}
	}

	if payload.Status != "OK" {
		return nil, &types.FetchError{
			Source: codeforcesPlatform,
			Err:    fmt.Errorf("API status %q: %s", payload.Status, payload.Comment),
		}
	}

	nowSec := now.Unix()
	records := make([]Record, 0, len(payload.Result))
	for _, contest := range payload.Result {
		if contest.Phase != "BEFORE" || contest.StartTimeSeconds <= nowSec {
			continue
		}
		records = append(records, Record{
			PlatformName: codeforcesPlatform,
			Name:         contest.Name,
			StartTime:    contest.StartTimeSeconds,
			Duration:     contest.DurationSeconds,
			CategoryName: ClassifyContestName(contest.Name),
		})
	}

	c.logger.WithFields(logrus.Fields{
		"source":   codeforcesPlatform,
		"upcoming": len(records),
		"total":    len(payload.Result),
	}).Info("fetched contest list")

	return records, nil
}
