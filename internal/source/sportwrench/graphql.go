package sportwrench

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/source"
	"github.com/rcski77/aes-results-scraping/internal/standing"
)

const (
	GraphQLName     = "sportwrench-graphql"
	GraphQLEndpoint = "https://events2.sportwrench.com/api/esw/graphql"

	DefaultPageSize = 50

	// maxPages guards against a server that never reports a final page
	maxPages = 200
)

const divisionTeamsQuery = `query PaginatedDivisionTeams($eswId: ID!, $divisionId: ID!, $page: Float!, $pageSize: Float!, $search: String) {
  paginatedDivisionTeams(eventKey: $eswId, divisionId: $divisionId, page: $page, pageSize: $pageSize, search: $search) {
    items {
      team_id
      team_name
      organization_code
      division_id
      division_standing {
        matches_won
        matches_lost
        rank
      }
    }
    page_info {
      page
      page_size
      page_count
      item_count
    }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		PaginatedDivisionTeams *struct {
			Items    []graphQLTeam `json:"items"`
			PageInfo struct {
				Page      int `json:"page"`
				PageSize  int `json:"page_size"`
				PageCount int `json:"page_count"`
				ItemCount int `json:"item_count"`
			} `json:"page_info"`
		} `json:"paginatedDivisionTeams"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type graphQLTeam struct {
	TeamID           source.FlexString `json:"team_id"`
	TeamName         string            `json:"team_name"`
	OrganizationCode source.FlexString `json:"organization_code"`
	DivisionStanding *struct {
		Rank source.FlexString `json:"rank"`
	} `json:"division_standing"`
}

// GraphQLAdapter reads division teams and their standing rank from the
// SportWrench GraphQL endpoint. Event and division metadata still come from
// the REST API.
type GraphQLAdapter struct {
	meta     metadata
	fetcher  *source.Fetcher
	endpoint string
	pageSize int
}

// NewGraphQL creates a GraphQL adapter. rest serves the metadata requests and
// gql the GraphQL posts; they may be the same fetcher.
func NewGraphQL(rest, gql *source.Fetcher) *GraphQLAdapter {
	return &GraphQLAdapter{
		meta:     metadata{fetcher: rest, baseURL: BaseURL},
		fetcher:  gql,
		endpoint: GraphQLEndpoint,
		pageSize: DefaultPageSize,
	}
}

// Name implements source.Adapter
func (a *GraphQLAdapter) Name() string {
	return GraphQLName
}

// FetchStandings implements source.Adapter
func (a *GraphQLAdapter) FetchStandings(ctx context.Context, eventID string) ([]standing.Record, error) {
	eventID = ParseEventID(eventID)

	info, err := a.meta.event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	divs, err := a.meta.divisions(ctx, eventID)
	if err != nil {
		return nil, err
	}

	logger.Info("Processing event", logger.Fields{
		"source":    GraphQLName,
		"event_id":  eventID,
		"event":     info.LongName,
		"divisions": len(divs),
	})

	var records []standing.Record
	for _, div := range divs {
		teams, err := a.divisionTeams(ctx, eventID, div.ID.String())
		if err != nil {
			skipDivision(GraphQLName, eventID, div.ID.String(), err)
			continue
		}
		logger.IncrCounter("divisions.fetched")

		divName := strings.TrimSpace(div.Name)
		for _, team := range teams {
			var finish string
			if team.DivisionStanding != nil {
				finish = source.NormalizeFinish(team.DivisionStanding.Rank.String())
			}
			records = append(records, standing.Record{
				TeamName:     strings.TrimSpace(team.TeamName),
				TeamCode:     strings.TrimSpace(team.OrganizationCode.String()),
				Finish:       finish,
				FinishLabel:  standing.Label(finish, divName),
				DivisionName: divName,
				EventName:    info.LongName,
				EventID:      eventID,
				EventDate:    info.DateStart,
				Source:       GraphQLName,
			})
		}
	}

	return source.Clean(GraphQLName, records), nil
}

// divisionTeams walks every page of one division
func (a *GraphQLAdapter) divisionTeams(ctx context.Context, eventID, divisionID string) ([]graphQLTeam, error) {
	var teams []graphQLTeam
	for page := 1; page <= maxPages; page++ {
		req := graphQLRequest{
			Query: divisionTeamsQuery,
			Variables: map[string]interface{}{
				"eswId":      eventID,
				"divisionId": divisionID,
				"page":       page,
				"pageSize":   a.pageSize,
				"search":     "",
			},
		}

		var resp graphQLResponse
		if err := a.fetcher.PostJSON(ctx, a.endpoint, req, &resp); err != nil {
			return nil, err
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("%w: graphql: %s", source.ErrParseFailure, resp.Errors[0].Message)
		}
		result := resp.Data.PaginatedDivisionTeams
		if result == nil {
			return nil, fmt.Errorf("%w: graphql: empty paginatedDivisionTeams", source.ErrParseFailure)
		}

		teams = append(teams, result.Items...)
		if page >= result.PageInfo.PageCount || len(result.Items) == 0 {
			return teams, nil
		}
	}
	return teams, nil
}
