// Package congress retrieves member, committee and voting records from the
// Congress.gov v3 API.
package congress

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	drepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/internal/service/ratelimit"
	"github.com/ybird-labs/senate-insight-lab/pkg/cache"
	apphttp "github.com/ybird-labs/senate-insight-lab/pkg/http"
	"github.com/ybird-labs/senate-insight-lab/pkg/logger"
	"github.com/ybird-labs/senate-insight-lab/pkg/util"
)

const (
	limiterKey    = "congress"
	limiterBurst  = 5.0
	limiterRefill = 1.0 // requests per second

	committeeCacheTTL = 12 * time.Hour
	memberCacheTTL    = 24 * time.Hour

	currentCongress = "118"
)

// Client implements repository.CongressData against api.congress.gov.
type Client struct {
	apiKey  string
	baseURL string
	http    *apphttp.Client
	limiter *ratelimit.Limiter
	cache   cache.Service
	log     *logger.Logger
}

// New creates a Congress.gov client.
func New(apiKey, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter, c cache.Service, log *logger.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    apphttp.NewClient(apphttp.WithTimeout(timeout)),
		limiter: limiter,
		cache:   c,
		log:     log,
	}
}

var _ drepo.CongressData = (*Client)(nil)

type memberEntry struct {
	BioguideID string `json:"bioguideId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	State      string `json:"state"`
	District   string `json:"district"`
	Party      string `json:"party"`
}

type membersResponse struct {
	Members []memberEntry `json:"members"`
}

// CurrentMembers lists the sitting members of one chamber.
func (c *Client) CurrentMembers(ctx context.Context, chamber models.Chamber) ([]models.Member, error) {
	cacheKey := fmt.Sprintf("congress:members:%s", chamber)
	var cached []models.Member
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var resp membersResponse
	path := fmt.Sprintf("%s/member/%s/%s", c.baseURL, chamber, currentCongress)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s members: %w", chamber, err)
	}

	members := make([]models.Member, 0, len(resp.Members))
	for _, m := range resp.Members {
		if m.BioguideID == "" {
			continue
		}
		members = append(members, models.Member{
			MemberID: m.BioguideID,
			Name:     joinName(m.FirstName, m.LastName),
			Chamber:  chamber,
			State:    m.State,
			District: m.District,
			Party:    m.Party,
		})
	}

	if err := c.cache.Set(ctx, cacheKey, members, memberCacheTTL); err != nil {
		c.log.Warn("cache members failed", logger.Error(err))
	}
	return members, nil
}

type voteEntry struct {
	VoteID    string `json:"voteId"`
	BillID    string `json:"billNumber"`
	BillTitle string `json:"billTitle"`
	VoteDate  string `json:"voteDate"`
	Position  string `json:"memberVotePosition"`
	Subjects  []string `json:"legislativeSubjects"`
	Committee string `json:"committeeName"`
}

type votesResponse struct {
	Votes []voteEntry `json:"votes"`
}

// MemberActions returns the member's voting record since the given time.
func (c *Client) MemberActions(ctx context.Context, memberID string, since time.Time) ([]models.LegislativeAction, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("fromDateTime", since.UTC().Format(time.RFC3339))
	}

	var resp votesResponse
	path := fmt.Sprintf("%s/member/%s/vote", c.baseURL, memberID)
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, fmt.Errorf("fetch votes for %s: %w", memberID, err)
	}

	actions := make([]models.LegislativeAction, 0, len(resp.Votes))
	for _, v := range resp.Votes {
		when, ok := util.ParseDate(v.VoteDate)
		if !ok {
			c.log.Warn("vote with unparseable date skipped",
				logger.String("member_id", memberID), logger.String("vote_id", v.VoteID))
			continue
		}
		actions = append(actions, models.LegislativeAction{
			ActionID:           "vote_" + v.VoteID,
			MemberID:           memberID,
			ActionType:         "vote",
			BillID:             v.BillID,
			BillTitle:          v.BillTitle,
			ActionDate:         when,
			Position:           v.Position,
			IndustriesAffected: v.Subjects,
			Committee:          v.Committee,
		})
	}
	return actions, nil
}

type committeeEntry struct {
	CommitteeName string `json:"committeeName"`
	CommitteeCode string `json:"committeeCode"`
	Rank          string `json:"rank"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
}

type committeesResponse struct {
	CommitteeAssignments []committeeEntry `json:"committeeAssignments"`
}

// MemberCommittees returns the member's committee assignments.
func (c *Client) MemberCommittees(ctx context.Context, memberID string) ([]models.CommitteeAssignment, error) {
	cacheKey := "congress:committees:" + memberID
	var cached []models.CommitteeAssignment
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var resp committeesResponse
	path := fmt.Sprintf("%s/member/%s/committee-assignment", c.baseURL, memberID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch committees for %s: %w", memberID, err)
	}

	assignments := make([]models.CommitteeAssignment, 0, len(resp.CommitteeAssignments))
	for _, a := range resp.CommitteeAssignments {
		if a.CommitteeName == "" {
			continue
		}
		assignment := models.CommitteeAssignment{
			MemberID:      memberID,
			CommitteeName: a.CommitteeName,
			CommitteeCode: a.CommitteeCode,
			Role:          roleFromRank(a.Rank),
			StartDate:     util.ParseDateDefault(a.StartDate, time.Time{}),
		}
		if end, ok := util.ParseDate(a.EndDate); ok {
			assignment.EndDate = &end
		}
		assignments = append(assignments, assignment)
	}

	if err := c.cache.Set(ctx, cacheKey, assignments, committeeCacheTTL); err != nil {
		c.log.Warn("cache committees failed", logger.Error(err))
	}
	return assignments, nil
}

func (c *Client) get(ctx context.Context, rawURL string, q url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx, limiterKey, limiterBurst, limiterRefill); err != nil {
		return err
	}

	if q == nil {
		q = url.Values{}
	}
	q.Set("format", "json")

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}

	return c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL:     rawURL,
		Headers: headers,
		Query:   q,
	}, dest)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func roleFromRank(rank string) string {
	if rank == "" {
		return "Member"
	}
	return rank
}
