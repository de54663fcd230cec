package guide

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voter-guides/internal/identity"
	"voter-guides/internal/infra/adapter/persistence/sqlite"
	"voter-guides/internal/timespan"
	guideUC "voter-guides/internal/usecase/guide"
	guidelistUC "voter-guides/internal/usecase/guidelist"
)

type testEnv struct {
	db  *sql.DB
	mux *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "guides.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := guideUC.NewService(
		sqlite.NewVoterGuideRepo(db),
		sqlite.NewOrganizationRepo(db),
		sqlite.NewElectionRepo(db),
		timespan.DefaultCatalog(),
		identity.NewGenerator("02", sqlite.NewSequenceRepo(db)),
		logger,
	)
	lists := guidelistUC.NewService(sqlite.NewVoterGuideRepo(db), logger)

	mux := http.NewServeMux()
	Register(mux, svc, lists)

	return &testEnv{db: db, mux: mux}
}

func (e *testEnv) seedOrganization(t *testing.T, weVoteID, name, twitterHandle string, followers int64) {
	t.Helper()
	_, err := e.db.Exec(
		`INSERT INTO organizations (we_vote_id, name, photo_url, twitter_handle, twitter_followers_count)
		 VALUES (?, ?, ?, ?, ?)`,
		weVoteID, name, "https://img.example.org/"+weVoteID+".png", twitterHandle, followers)
	require.NoError(t, err)
}

func (e *testEnv) seedElection(t *testing.T, electionID int64, name, day string) {
	t.Helper()
	_, err := e.db.Exec(
		`INSERT INTO elections (google_civic_election_id, election_name, election_day) VALUES (?, ?, ?)`,
		electionID, name, day)
	require.NoError(t, err)
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestUpsertOrganizationRoute(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganization(t, "wv02org1", "League of Example Voters", "exampleleague", 1200)

	t.Run("create", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
			"organization_we_vote_id":  "wv02org1",
			"google_civic_election_id": 4162,
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decode[UpsertResponse](t, rec)
		assert.True(t, resp.Success)
		assert.True(t, resp.Created)
		assert.Equal(t, "VOTER_GUIDE_CREATED_FOR_ORGANIZATION", resp.Status)
		require.NotNil(t, resp.VoterGuide)
		assert.Equal(t, "wv02vg1", resp.VoterGuide.WeVoteID)
		assert.Equal(t, "League of Example Voters", resp.VoterGuide.DisplayName)
	})

	t.Run("second call updates", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
			"organization_we_vote_id":  "wv02org1",
			"google_civic_election_id": 4162,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[UpsertResponse](t, rec)
		assert.True(t, resp.Success)
		assert.False(t, resp.Created)
		assert.Equal(t, "VOTER_GUIDE_UPDATED_FOR_ORGANIZATION", resp.Status)
	})

	t.Run("unknown organization rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
			"organization_we_vote_id":  "wv02org404",
			"google_civic_election_id": 4162,
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[UpsertResponse](t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, "VOTER_GUIDE_NOT_CREATED_BECAUSE_ORGANIZATION_NOT_FOUND_LOCALLY", resp.Status)
	})

	t.Run("missing variables rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
			"google_civic_election_id": 4162,
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("time span variant", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
			"organization_we_vote_id": "wv02org1",
			"vote_smart_time_span":    "2015-2016",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decode[UpsertResponse](t, rec)
		assert.Equal(t, "VOTER_GUIDE_CREATED_FOR_ORGANIZATION_BY_TIME_SPAN", resp.Status)
		assert.Equal(t, "2015-2016", resp.VoterGuide.VoteSmartTimeSpan)
	})
}

func TestUpsertVoterAndPublicFigureRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/voter-guides/public-figure", map[string]any{
		"public_figure_we_vote_id": "wv02pf1",
		"google_civic_election_id": 4162,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[UpsertResponse](t, rec)
	assert.Equal(t, "P", resp.VoterGuide.OwnerType)

	rec = env.do(t, http.MethodPost, "/voter-guides/voter", map[string]any{
		"owner_voter_id":           321,
		"google_civic_election_id": 4162,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp = decode[UpsertResponse](t, rec)
	assert.Equal(t, "V", resp.VoterGuide.OwnerType)
	assert.Equal(t, int64(321), resp.VoterGuide.OwnerVoterID)

	rec = env.do(t, http.MethodPost, "/voter-guides/voter", map[string]any{
		"owner_voter_id":           321,
		"google_civic_election_id": 4162,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decode[UpsertResponse](t, rec)
	assert.Equal(t, "VOTER_GUIDE_UPDATED_FOR_VOTER", resp.Status)

	rec = env.do(t, http.MethodPost, "/voter-guides/voter", map[string]any{
		"google_civic_election_id": 4162,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndRetrieveRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganization(t, "wv02org1", "League of Example Voters", "exampleleague", 1200)

	created := decode[UpsertResponse](t, env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
		"organization_we_vote_id":  "wv02org1",
		"google_civic_election_id": 4162,
	}))
	require.NotNil(t, created.VoterGuide)

	t.Run("get by path id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/voter-guides/1", nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[RetrieveResponse](t, rec)
		assert.True(t, resp.Found)
		assert.Equal(t, "VOTER_GUIDE_FOUND_WITH_ID", resp.Status)
	})

	t.Run("invalid path id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/voter-guides/abc", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("retrieve by organization and election", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/voter-guides/retrieve?organization_we_vote_id=wv02org1&google_civic_election_id=4162", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[RetrieveResponse](t, rec)
		assert.True(t, resp.Found)
		assert.Equal(t, "VOTER_GUIDE_FOUND_WITH_ORGANIZATION_WE_VOTE_ID", resp.Status)
	})

	t.Run("not found is a 200 with found false", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/voter-guides/retrieve?organization_we_vote_id=wv02org1&google_civic_election_id=9999", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[RetrieveResponse](t, rec)
		assert.True(t, resp.Success)
		assert.False(t, resp.Found)
		assert.Equal(t, "VOTER_GUIDE_NOT_FOUND", resp.Status)
	})

	t.Run("no usable keys rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/voter-guides/retrieve", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[RetrieveResponse](t, rec)
		assert.Equal(t, "VOTER_GUIDE_NOT_RETRIEVED_INSUFFICIENT_VARIABLES", resp.Status)
	})

	t.Run("most recent", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/voter-guides/most-recent?organization_we_vote_id=wv02org1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[RetrieveResponse](t, rec)
		assert.True(t, resp.Success)
	})

	t.Run("blank display fields fall back to the owner record", func(t *testing.T) {
		_, err := env.db.Exec(
			`UPDATE voter_guides SET display_name = '', image_url = '' WHERE id = 1`)
		require.NoError(t, err)

		rec := env.do(t, http.MethodGet, "/voter-guides/1", nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[RetrieveResponse](t, rec)
		require.NotNil(t, resp.VoterGuide)
		assert.Equal(t, "League of Example Voters", resp.VoterGuide.DisplayName)
		assert.Equal(t, "https://img.example.org/wv02org1.png", resp.VoterGuide.ImageURL)
	})
}

func TestExistsRoute(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganization(t, "wv02org1", "League of Example Voters", "exampleleague", 1200)

	created := env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
		"organization_we_vote_id":  "wv02org1",
		"google_civic_election_id": 4162,
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	t.Run("found", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/voter-guides/exists?organization_we_vote_id=wv02org1&google_civic_election_id=4162", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ExistsResponse](t, rec)
		assert.True(t, resp.Success)
		assert.True(t, resp.VoterGuideExists)
	})

	t.Run("absent pair", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/voter-guides/exists?organization_we_vote_id=wv02org1&google_civic_election_id=9999", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ExistsResponse](t, rec)
		assert.True(t, resp.Success)
		assert.False(t, resp.VoterGuideExists)
	})

	t.Run("missing keys rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/voter-guides/exists?google_civic_election_id=4162", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodGet, "/voter-guides/exists?organization_we_vote_id=wv02org1", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganization(t, "wv02org1", "League of Example Voters", "exampleleague", 1200)
	env.seedOrganization(t, "wv02org2", "Citizens Forum", "citforum", 50)

	for _, body := range []map[string]any{
		{"organization_we_vote_id": "wv02org1", "google_civic_election_id": 4162},
		{"organization_we_vote_id": "wv02org2", "google_civic_election_id": 4162},
		{"organization_we_vote_id": "wv02org1", "vote_smart_time_span": "2015-2016"},
	} {
		rec := env.do(t, http.MethodPost, "/voter-guides/organization", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	t.Run("all ordered by followers", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/voter-guides", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ListResponse](t, rec)
		assert.True(t, resp.Found)
		require.Len(t, resp.VoterGuides, 3)
		assert.Equal(t, "wv02org1", resp.VoterGuides[0].OrganizationWeVoteID)
	})

	t.Run("for election", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/voter-guides/for-election?google_civic_election_id=4162", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ListResponse](t, rec)
		assert.Len(t, resp.VoterGuides, 2)
	})

	t.Run("for election requires id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/voter-guides/for-election", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("by organizations", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/by-organizations", map[string]any{
			"organization_we_vote_ids": []string{"wv02org1", "wv02org2"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ListResponse](t, rec)
		assert.Len(t, resp.VoterGuides, 3)
	})

	t.Run("by organizations reordered by followers", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/by-organizations", map[string]any{
			"organization_we_vote_ids": []string{"wv02org1", "wv02org2"},
			"order_by":                 "twitter_followers",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ListResponse](t, rec)
		require.NotEmpty(t, resp.VoterGuides)
		for i := 1; i < len(resp.VoterGuides); i++ {
			assert.GreaterOrEqual(t,
				resp.VoterGuides[i-1].TwitterFollowersCount,
				resp.VoterGuides[i].TwitterFollowersCount)
		}
		assert.Equal(t, "wv02org1", resp.VoterGuides[0].OrganizationWeVoteID)
	})

	t.Run("by organizations requires list", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/by-organizations", map[string]any{})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[ListResponse](t, rec)
		assert.Equal(t, "NO_VOTER_GUIDES_FOUND_MISSING_ORGANIZATION_LIST", resp.Status)
	})

	t.Run("to follow by election with search", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/to-follow", map[string]any{
			"google_civic_election_id": 4162,
			"organization_we_vote_ids": []string{"wv02org1", "wv02org2"},
			"search_string":            "citizens",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ListResponse](t, rec)
		require.Len(t, resp.VoterGuides, 1)
		assert.Equal(t, "wv02org2", resp.VoterGuides[0].OrganizationWeVoteID)
	})

	t.Run("to follow generic excludes organizations", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/to-follow", map[string]any{
			"excluded_organization_we_vote_ids": []string{"wv02org2"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ListResponse](t, rec)
		for _, vg := range resp.VoterGuides {
			assert.NotEqual(t, "wv02org2", vg.OrganizationWeVoteID)
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/voter-guides/duplicates?google_civic_election_id=4162&organization_we_vote_id=wv02org1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ListResponse](t, rec)
		require.Len(t, resp.VoterGuides, 1)
		assert.Equal(t, "wv02org1", resp.VoterGuides[0].OrganizationWeVoteID)
	})
}

func TestRefreshAndSocialStatisticsRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganization(t, "wv02org1", "League of Example Voters", "exampleleague", 1200)
	env.seedElection(t, 4162, "Midterms", "2014-11-04")

	created := decode[UpsertResponse](t, env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
		"organization_we_vote_id":  "wv02org1",
		"google_civic_election_id": 4162,
	}))
	require.NotNil(t, created.VoterGuide)
	guideID := created.VoterGuide.ID

	t.Run("refresh reports no changes when cache is populated", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/refresh", map[string]any{
			"voter_guide_id": guideID,
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[UpsertResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, "NO_CHANGES_SAVED_TO_ORG_TWITTER_DETAILS", resp.Status)
	})

	t.Run("social statistics picks up follower changes", func(t *testing.T) {
		_, err := env.db.Exec(`UPDATE organizations SET twitter_followers_count = 9000 WHERE we_vote_id = ?`, "wv02org1")
		require.NoError(t, err)

		rec := env.do(t, http.MethodPost, "/voter-guides/social-statistics", map[string]any{
			"organization_we_vote_id": "wv02org1",
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[UpsertResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, "SAVED_ORG_TWITTER_DETAILS", resp.Status)
		require.NotNil(t, resp.VoterGuide)
		assert.Equal(t, int64(9000), resp.VoterGuide.TwitterFollowersCount)
		assert.Equal(t, "exampleleague", resp.VoterGuide.TwitterHandle)
	})

	t.Run("social statistics is a no-op for an organization with no followers", func(t *testing.T) {
		env.seedOrganization(t, "wv02org2", "Quiet Caucus", "quietcaucus", 0)
		quiet := decode[UpsertResponse](t, env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
			"organization_we_vote_id":  "wv02org2",
			"google_civic_election_id": 4162,
		}))
		require.NotNil(t, quiet.VoterGuide)

		rec := env.do(t, http.MethodPost, "/voter-guides/social-statistics", map[string]any{
			"organization_we_vote_id": "wv02org2",
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[UpsertResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, "NO_CHANGES_SAVED_TO_ORG_TWITTER_DETAILS", resp.Status)
	})

	t.Run("social statistics touches only the most recent guide", func(t *testing.T) {
		for _, span := range []string{"2013", "2016"} {
			rec := env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
				"organization_we_vote_id": "wv02org1",
				"vote_smart_time_span":    span,
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}
		_, err := env.db.Exec(`UPDATE organizations SET twitter_followers_count = 600 WHERE we_vote_id = ?`, "wv02org1")
		require.NoError(t, err)
		_, err = env.db.Exec(`UPDATE voter_guides SET twitter_followers_count = 100 WHERE organization_we_vote_id = ?`, "wv02org1")
		require.NoError(t, err)

		rec := env.do(t, http.MethodPost, "/voter-guides/social-statistics", map[string]any{
			"organization_we_vote_id": "wv02org1",
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[UpsertResponse](t, rec)
		require.NotNil(t, resp.VoterGuide)
		assert.Equal(t, "2016", resp.VoterGuide.VoteSmartTimeSpan)
		assert.Equal(t, int64(600), resp.VoterGuide.TwitterFollowersCount)

		var oldCount int64
		require.NoError(t, env.db.QueryRow(
			`SELECT twitter_followers_count FROM voter_guides WHERE vote_smart_time_span = ?`, "2013",
		).Scan(&oldCount))
		assert.Equal(t, int64(100), oldCount, "older guides keep their counts")
	})

	t.Run("missing id rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/refresh", map[string]any{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing organization rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/voter-guides/social-statistics", map[string]any{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteRoute(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganization(t, "wv02org1", "League of Example Voters", "exampleleague", 1200)

	created := decode[UpsertResponse](t, env.do(t, http.MethodPost, "/voter-guides/organization", map[string]any{
		"organization_we_vote_id":  "wv02org1",
		"google_civic_election_id": 4162,
	}))
	require.NotNil(t, created.VoterGuide)

	rec := env.do(t, http.MethodDelete, "/voter-guides/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DeleteResponse](t, rec)
	assert.True(t, resp.Success)
	assert.True(t, resp.Deleted)

	rec = env.do(t, http.MethodDelete, "/voter-guides/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[DeleteResponse](t, rec)
	assert.True(t, resp.Success)
	assert.False(t, resp.Deleted)
}
