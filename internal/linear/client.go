package linear

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	graphql "github.com/cli/shurcooL-graphql"
)

// DefaultEndpoint is the public Linear GraphQL endpoint.
const DefaultEndpoint = "https://api.linear.app/graphql"

// Options configures a Client.
type Options struct {
	Endpoint        string
	APIKey          string
	Timeout         time.Duration
	PageSize        int
	HistoryPageSize int

	// Transport overrides the HTTP transport, used by tests.
	Transport http.RoundTripper
}

// Client issues the timeline queries against the Linear API.
type Client struct {
	gql             *graphql.Client
	pageSize        int
	historyPageSize int
}

// NewClient creates a client authenticated with opts.APIKey.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: &authTransport{apiKey: opts.APIKey, base: base},
	}

	c := &Client{
		gql:             graphql.NewClient(endpoint, httpClient),
		pageSize:        opts.PageSize,
		historyPageSize: opts.HistoryPageSize,
	}
	if c.pageSize <= 0 {
		c.pageSize = 50
	}
	if c.historyPageSize <= 0 {
		c.historyPageSize = 20
	}
	return c, nil
}

// authTransport sets the Authorization header and turns non-success
// responses into *HTTPError.
type authTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", t.apiKey)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
	return resp, nil
}

// ListTeams returns every team visible to the API key.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var q teamsQuery
	if err := c.gql.QueryNamed(ctx, "ListTeams", &q, nil); err != nil {
		return nil, &QueryError{Op: "listTeams", Err: err}
	}

	teams := make([]Team, 0, len(q.Teams.Nodes))
	for _, n := range q.Teams.Nodes {
		teams = append(teams, Team{ID: n.ID, Name: n.Name})
	}
	return teams, nil
}

// GetTeamRoster returns the workflow states and members of a team.
// Members come back without items.
func (c *Client) GetTeamRoster(ctx context.Context, teamID string) (Roster, error) {
	var q rosterQuery
	vars := map[string]any{
		"teamId": graphql.String(teamID),
	}
	if err := c.gql.QueryNamed(ctx, "GetTeamMembers", &q, vars); err != nil {
		return Roster{}, &QueryError{Op: "getTeamRoster", Err: err}
	}
	if q.Team == nil {
		return Roster{}, fmt.Errorf("team %s: %w", teamID, ErrTeamNotFound)
	}

	roster := Roster{
		Team:           Team{ID: q.Team.ID, Name: q.Team.Name},
		WorkflowStates: make([]WorkflowState, 0, len(q.Team.States.Nodes)),
		Members:        make([]Member, 0, len(q.Team.Members.Nodes)),
	}
	for _, s := range q.Team.States.Nodes {
		roster.WorkflowStates = append(roster.WorkflowStates, WorkflowState{
			ID:       s.ID,
			Name:     s.Name,
			Type:     StatusType(s.Type),
			Color:    s.Color,
			Position: s.Position,
		})
	}
	for _, m := range q.Team.Members.Nodes {
		roster.Members = append(roster.Members, Member{
			ID:          m.ID,
			Name:        m.Name,
			DisplayName: m.DisplayName,
		})
	}
	return roster, nil
}

// ListAssignedItems returns one page of a user's started or completed items
// in the team, started on or after startedAfter. An empty cursor requests
// the first page.
func (c *Client) ListAssignedItems(ctx context.Context, userID, teamID string, startedAfter time.Time, cursor string) (ItemPage, error) {
	var after *graphql.String
	if cursor != "" {
		s := graphql.String(cursor)
		after = &s
	}

	var q userIssuesQuery
	vars := map[string]any{
		"userId":       graphql.String(userID),
		"teamIdFilter": ID(teamID),
		"startedAfter": DateTimeOrDuration(startedAfter.UTC().Format(time.RFC3339)),
		"first":        graphql.Int(c.pageSize),
		"after":        after,
	}
	if err := c.gql.QueryNamed(ctx, "GetUserIssues", &q, vars); err != nil {
		return ItemPage{}, &QueryError{Op: "listAssignedItems", Err: err}
	}
	if q.User == nil {
		return ItemPage{}, nil
	}

	conn := q.User.AssignedIssues
	page := ItemPage{
		Items:   make([]WorkItem, 0, len(conn.Nodes)),
		HasNext: conn.PageInfo.HasNextPage,
	}
	if conn.PageInfo.EndCursor != nil {
		page.NextCursor = *conn.PageInfo.EndCursor
	}
	for _, n := range conn.Nodes {
		item, err := n.toWorkItem()
		if err != nil {
			return ItemPage{}, &QueryError{Op: "listAssignedItems", Err: err}
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// GetItemHistory returns the most recent state transitions of an item in
// the order the API reports them.
func (c *Client) GetItemHistory(ctx context.Context, itemID string) ([]HistoryEntry, error) {
	var q issueHistoryQuery
	vars := map[string]any{
		"issueId": graphql.String(itemID),
		"first":   graphql.Int(c.historyPageSize),
	}
	if err := c.gql.QueryNamed(ctx, "GetIssueHistory", &q, vars); err != nil {
		return nil, &QueryError{Op: "getItemHistory", Err: err}
	}
	if q.Issue == nil {
		return nil, nil
	}

	entries := make([]HistoryEntry, 0, len(q.Issue.History.Nodes))
	for _, n := range q.Issue.History.Nodes {
		entry, err := n.toEntry()
		if err != nil {
			return nil, &QueryError{Op: "getItemHistory", Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
