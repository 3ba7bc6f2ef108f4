package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/neilberkman/runclub/internal/core/app"
	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/config"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/share"
)

// FindSessionsArgs defines arguments for the find_sessions tool
type FindSessionsArgs struct {
	Query string `json:"query,omitempty" jsonschema:"description=Filter query such as 'type:fartlek when:week pace:4:30-5:15'"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max number of sessions to return (default: 10)"`
}

// GetSessionArgs defines arguments for the get_session tool
type GetSessionArgs struct {
	SessionID string `json:"session_id" jsonschema:"description=Session id to retrieve,required"`
}

// SessionSummary represents a session in search results
type SessionSummary struct {
	SessionID   string   `json:"session_id"`
	Title       string   `json:"title"`
	Spot        string   `json:"spot"`
	When        string   `json:"when"`
	Relative    string   `json:"relative,omitempty"`
	Type        string   `json:"type"`
	Groups      []string `json:"groups"`
	Recommended string   `json:"recommended_group,omitempty"`
	WomenOnly   bool     `json:"women_only,omitempty"`
	MembersOf   string   `json:"members_of,omitempty"`
}

// SessionDetail is a full session plus its share card
type SessionDetail struct {
	Session   models.Session `json:"session"`
	CanJoin   bool           `json:"can_join"`
	ShareCard string         `json:"share_card"`
}

// JoinedSummary is a joined session and the group picked
type JoinedSummary struct {
	SessionSummary
	GroupID string `json:"group_id"`
}

// tools holds what the handlers need; tests build it without a database
type tools struct {
	catalog       *catalog.Catalog
	runnerGroup   string
	paces         *models.ReferencePaces
	shareTemplate string
	now           func() time.Time
}

// StartServer starts the MCP server on stdio
func StartServer(dbPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a, err := app.Open(cfg, dbPath, time.Now())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	t := &tools{
		catalog:       a.Catalog,
		runnerGroup:   cfg.RunnerGroup,
		shareTemplate: cfg.ShareTemplate,
		now:           time.Now,
	}
	if len(cfg.Paces.Points()) > 0 {
		t.paces = &cfg.Paces
	}

	s := server.NewMCPServer(
		"RunClub",
		"1.0.0",
	)
	t.register(s)
	return server.ServeStdio(s)
}

func (t *tools) register(s *server.MCPServer) {
	findTool := mcp.NewTool("find_sessions",
		mcp.WithDescription("Find upcoming group running sessions. Results are ordered by closeness to the runner's reference paces, then by date. The query accepts tokens spot:, type:, when:(today|week|month), after:, before:, pace:lo-hi, women, walking; other words must appear in title, spot or type."),
		mcp.WithString("query",
			mcp.Description("Filter query, e.g. 'type:threshold when:week'")),
		mcp.WithNumber("limit",
			mcp.Description("Max number of sessions to return (default: 10)")),
	)
	s.AddTool(findTool, t.findSessions)

	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Retrieve a session with its pace groups, whether the runner may join it, and its share card"),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id to retrieve")),
	)
	s.AddTool(getTool, t.getSession)

	joinedTool := mcp.NewTool("list_joined",
		mcp.WithDescription("List the sessions the runner joined and the pace group picked for each"),
	)
	s.AddTool(joinedTool, t.listJoined)
}

func decodeArgs(request mcp.CallToolRequest, v interface{}) error {
	argsBytes, _ := json.Marshal(request.Params.Arguments)
	return json.Unmarshal(argsBytes, v)
}

func textResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (t *tools) summarize(s models.Session, now time.Time) SessionSummary {
	sum := SessionSummary{
		SessionID:   s.ID,
		Title:       s.Title,
		Spot:        s.Spot,
		When:        s.DateLabel,
		Relative:    share.Relative(s, now),
		Type:        s.TypeLabel,
		Groups:      []string{},
		Recommended: s.RecommendedGroupID,
		WomenOnly:   s.GenderRestriction == models.GenderWomenOnly,
	}
	if s.Visibility == models.VisibilityMembers {
		sum.MembersOf = s.HostGroupName
	}
	for _, g := range s.OfferedGroups() {
		label := g.ID
		if g.PaceRange != "" {
			label += " " + g.PaceRange
		}
		sum.Groups = append(sum.Groups, label)
	}
	return sum
}

func (t *tools) findSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args FindSessionsArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 10
	}

	now := t.now()
	found, err := t.catalog.Search(ctx, args.Query, t.paces, now)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := []SessionSummary{}
	for _, s := range found {
		if len(results) >= limit {
			break
		}
		results = append(results, t.summarize(s, now))
	}

	return textResult(map[string]interface{}{
		"sessions": results,
		"total":    len(found),
	})
}

func (t *tools) getSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args GetSessionArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.SessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	now := t.now()
	s, err := t.catalog.Get(ctx, args.SessionID, now)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session not found: %v", err)), nil
	}

	detail := SessionDetail{
		Session: s,
		CanJoin: catalog.CanJoin(s, t.runnerGroup),
	}
	card, err := share.Render(t.shareTemplate, s, now)
	if err != nil {
		log.Printf("Warning: share card for %s: %v", s.ID, err)
	} else {
		detail.ShareCard = card
	}
	return textResult(detail)
}

func (t *tools) listJoined(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := t.now()
	entries, err := t.catalog.Joined(ctx, now)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list joined sessions: %v", err)), nil
	}

	results := []JoinedSummary{}
	for _, e := range entries {
		results = append(results, JoinedSummary{
			SessionSummary: t.summarize(e.Session, now),
			GroupID:        e.GroupID,
		})
	}
	return textResult(map[string]interface{}{
		"joined": results,
	})
}
