package guide

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voter-guides/internal/domain/entity"
	"voter-guides/internal/identity"
	"voter-guides/internal/repository"
	"voter-guides/internal/timespan"
)

type fakeGuideRepo struct {
	guides  []*entity.VoterGuide
	nextID  int64
	failAll bool
}

var errStorage = errors.New("storage down")

func (f *fakeGuideRepo) matchOne(match func(*entity.VoterGuide) bool) (*entity.VoterGuide, error) {
	if f.failAll {
		return nil, errStorage
	}
	var hits []*entity.VoterGuide
	for _, g := range f.guides {
		if match(g) {
			hits = append(hits, g)
		}
	}
	switch len(hits) {
	case 0:
		return nil, nil
	case 1:
		return hits[0], nil
	default:
		return hits[0], entity.ErrMultipleFound
	}
}

func (f *fakeGuideRepo) GetByID(ctx context.Context, id int64) (*entity.VoterGuide, error) {
	return f.matchOne(func(g *entity.VoterGuide) bool { return g.ID == id })
}

func (f *fakeGuideRepo) GetByOrganizationAndElection(ctx context.Context, orgID string, electionID int64) (*entity.VoterGuide, error) {
	return f.matchOne(func(g *entity.VoterGuide) bool {
		return g.OrganizationWeVoteID == orgID && g.GoogleCivicElectionID == electionID
	})
}

func (f *fakeGuideRepo) GetByOrganizationAndTimeSpan(ctx context.Context, orgID, span string) (*entity.VoterGuide, error) {
	return f.matchOne(func(g *entity.VoterGuide) bool {
		return g.OrganizationWeVoteID == orgID && g.VoteSmartTimeSpan == span
	})
}

func (f *fakeGuideRepo) GetByPublicFigureAndElection(ctx context.Context, pfID string, electionID int64) (*entity.VoterGuide, error) {
	return f.matchOne(func(g *entity.VoterGuide) bool {
		return g.PublicFigureWeVoteID == pfID && g.GoogleCivicElectionID == electionID
	})
}

func (f *fakeGuideRepo) GetByOwnerAndElection(ctx context.Context, ownerID string, electionID int64) (*entity.VoterGuide, error) {
	return f.matchOne(func(g *entity.VoterGuide) bool {
		return g.OwnerWeVoteID == ownerID && g.GoogleCivicElectionID == electionID
	})
}

func (f *fakeGuideRepo) GetByVoterAndElection(ctx context.Context, voterID, electionID int64) (*entity.VoterGuide, error) {
	return f.matchOne(func(g *entity.VoterGuide) bool {
		return g.OwnerVoterID == voterID && g.GoogleCivicElectionID == electionID
	})
}

func (f *fakeGuideRepo) ExistsForOrganizationAndElection(ctx context.Context, orgID string, electionID int64) (bool, error) {
	if f.failAll {
		return false, errStorage
	}
	for _, g := range f.guides {
		if g.OrganizationWeVoteID == orgID && g.GoogleCivicElectionID == electionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGuideRepo) Create(ctx context.Context, guide *entity.VoterGuide) error {
	if f.failAll {
		return errStorage
	}
	f.nextID++
	guide.ID = f.nextID
	f.guides = append(f.guides, guide)
	return nil
}

func (f *fakeGuideRepo) Update(ctx context.Context, guide *entity.VoterGuide) error {
	if f.failAll {
		return errStorage
	}
	for i, g := range f.guides {
		if g.ID == guide.ID {
			f.guides[i] = guide
			return nil
		}
	}
	return errors.New("no rows affected")
}

func (f *fakeGuideRepo) Delete(ctx context.Context, id int64) error {
	if f.failAll {
		return errStorage
	}
	for i, g := range f.guides {
		if g.ID == id {
			f.guides = append(f.guides[:i], f.guides[i+1:]...)
			return nil
		}
	}
	return errors.New("no rows affected")
}

func (f *fakeGuideRepo) ListForElection(ctx context.Context, electionID int64) ([]*entity.VoterGuide, error) {
	if f.failAll {
		return nil, errStorage
	}
	var out []*entity.VoterGuide
	for _, g := range f.guides {
		if g.GoogleCivicElectionID == electionID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGuideRepo) ListByOrganizations(ctx context.Context, orgIDs []string) ([]*entity.VoterGuide, error) {
	if f.failAll {
		return nil, errStorage
	}
	allowed := map[string]bool{}
	for _, id := range orgIDs {
		allowed[id] = true
	}
	var out []*entity.VoterGuide
	for _, g := range f.guides {
		if allowed[g.OrganizationWeVoteID] {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGuideRepo) ListToFollowByElection(ctx context.Context, electionID int64, orgIDs []string, opts repository.ListOptions) ([]*entity.VoterGuide, error) {
	return f.ListByOrganizations(ctx, orgIDs)
}

func (f *fakeGuideRepo) ListToFollowByTimeSpans(ctx context.Context, pairs []repository.OrganizationTimeSpan, opts repository.ListOptions) ([]*entity.VoterGuide, error) {
	if f.failAll {
		return nil, errStorage
	}
	var out []*entity.VoterGuide
	for _, g := range f.guides {
		for _, p := range pairs {
			if g.OrganizationWeVoteID == p.OrganizationWeVoteID && g.VoteSmartTimeSpan == p.VoteSmartTimeSpan {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func (f *fakeGuideRepo) ListToFollowGeneric(ctx context.Context, excluded []string, opts repository.ListOptions) ([]*entity.VoterGuide, error) {
	if f.failAll {
		return nil, errStorage
	}
	skip := map[string]bool{}
	for _, id := range excluded {
		skip[id] = true
	}
	var out []*entity.VoterGuide
	for _, g := range f.guides {
		if !skip[g.OrganizationWeVoteID] {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGuideRepo) ListAll(ctx context.Context, orderBy repository.GuideOrder) ([]*entity.VoterGuide, error) {
	if f.failAll {
		return nil, errStorage
	}
	return f.guides, nil
}

func (f *fakeGuideRepo) ListPossibleDuplicates(ctx context.Context, filters repository.DuplicateFilters) ([]*entity.VoterGuide, error) {
	if f.failAll {
		return nil, errStorage
	}
	return nil, nil
}

func (f *fakeGuideRepo) CountGuides(ctx context.Context) (int64, error) {
	if f.failAll {
		return 0, errStorage
	}
	return int64(len(f.guides)), nil
}

type fakeOrgRepo struct {
	orgs map[string]*repository.Organization
	err  error
}

func (f *fakeOrgRepo) GetByWeVoteID(ctx context.Context, weVoteID string) (*repository.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orgs[weVoteID], nil
}

type fakeElectionRepo struct {
	elections []repository.Election
}

func (f *fakeElectionRepo) ListByDateDesc(ctx context.Context) ([]repository.Election, error) {
	return f.elections, nil
}

type fakeSequenceRepo struct{ last int64 }

func (f *fakeSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	f.last++
	return f.last, nil
}

func newTestService(guides *fakeGuideRepo, orgs *fakeOrgRepo, elections *fakeElectionRepo) *Service {
	if orgs == nil {
		orgs = &fakeOrgRepo{orgs: map[string]*repository.Organization{}}
	}
	if elections == nil {
		elections = &fakeElectionRepo{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ids := identity.NewGenerator("02", &fakeSequenceRepo{})
	return NewService(guides, orgs, elections, timespan.DefaultCatalog(), ids, logger)
}

func TestUpsertForOrganization(t *testing.T) {
	ctx := context.Background()
	org := &repository.Organization{
		WeVoteID:              "wv02org1",
		Name:                  "League of Example Voters",
		PhotoURL:              "https://example.org/logo.png",
		TwitterHandle:         "exampleleague",
		TwitterFollowersCount: 1200,
	}

	t.Run("creates with denormalized fields and assigned id", func(t *testing.T) {
		guides := &fakeGuideRepo{}
		svc := newTestService(guides, &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}, nil)

		res := svc.UpsertForOrganization(ctx, "wv02org1", 4162)

		require.True(t, res.Success)
		assert.True(t, res.Created)
		assert.Equal(t, StatusCreatedForOrganization, res.Status)
		require.NotNil(t, res.Guide)
		assert.Equal(t, "wv02vg1", res.Guide.WeVoteID)
		assert.Equal(t, entity.OwnerOrganization, res.Guide.OwnerType)
		assert.Equal(t, "League of Example Voters", res.Guide.DisplayName)
		assert.Equal(t, int64(1200), res.Guide.TwitterFollowersCount)
	})

	t.Run("updates existing guide and keeps its id", func(t *testing.T) {
		guides := &fakeGuideRepo{}
		svc := newTestService(guides, &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}, nil)

		first := svc.UpsertForOrganization(ctx, "wv02org1", 4162)
		require.True(t, first.Created)

		second := svc.UpsertForOrganization(ctx, "wv02org1", 4162)
		require.True(t, second.Success)
		assert.False(t, second.Created)
		assert.Equal(t, StatusUpdatedForOrganization, second.Status)
		assert.Equal(t, first.Guide.WeVoteID, second.Guide.WeVoteID)
		assert.Len(t, guides.guides, 1)
	})

	t.Run("fails when organization is not local", func(t *testing.T) {
		svc := newTestService(&fakeGuideRepo{}, nil, nil)

		res := svc.UpsertForOrganization(ctx, "wv02org9", 4162)

		assert.False(t, res.Success)
		assert.Equal(t, StatusOrganizationNotFoundLocally, res.Status)
	})

	t.Run("fails on missing variables", func(t *testing.T) {
		svc := newTestService(&fakeGuideRepo{}, nil, nil)

		assert.Equal(t, StatusVariablesMissingForOrganization, svc.UpsertForOrganization(ctx, "", 4162).Status)
		assert.Equal(t, StatusVariablesMissingForOrganization, svc.UpsertForOrganization(ctx, "wv02org1", 0).Status)
	})

	t.Run("reports ambiguity without writing", func(t *testing.T) {
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{
			{ID: 1, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
			{ID: 2, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
		}, nextID: 2}
		svc := newTestService(guides, &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}, nil)

		res := svc.UpsertForOrganization(ctx, "wv02org1", 4162)

		assert.False(t, res.Success)
		assert.True(t, res.MultipleFound)
		assert.Equal(t, StatusMultipleFoundForOrganization, res.Status)
		assert.Len(t, guides.guides, 2)
	})

	t.Run("downgrades storage faults", func(t *testing.T) {
		svc := newTestService(&fakeGuideRepo{failAll: true}, &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}, nil)

		res := svc.UpsertForOrganization(ctx, "wv02org1", 4162)

		assert.False(t, res.Success)
		assert.Equal(t, StatusStorageFailure, res.Status)
	})
}

func TestUpsertForOrganizationByTimeSpan(t *testing.T) {
	ctx := context.Background()
	org := &repository.Organization{WeVoteID: "wv02org1", Name: "League"}
	svc := newTestService(&fakeGuideRepo{}, &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}, nil)

	res := svc.UpsertForOrganizationByTimeSpan(ctx, "wv02org1", "2015-2016")
	require.True(t, res.Success)
	assert.Equal(t, StatusCreatedForOrganizationByTimeSpan, res.Status)
	assert.Equal(t, "2015-2016", res.Guide.VoteSmartTimeSpan)
	assert.Zero(t, res.Guide.GoogleCivicElectionID)

	res = svc.UpsertForOrganizationByTimeSpan(ctx, "wv02org1", "2015-2016")
	assert.Equal(t, StatusUpdatedForOrganizationByTimeSpan, res.Status)

	assert.Equal(t, StatusVariablesMissingForOrganizationByTimeSpan,
		svc.UpsertForOrganizationByTimeSpan(ctx, "wv02org1", "").Status)
}

func TestUpsertForPublicFigureSkipsDenormalization(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeGuideRepo{}, nil, nil)

	res := svc.UpsertForPublicFigure(ctx, "wv02pf7", 4162)

	require.True(t, res.Success)
	assert.Equal(t, StatusCreatedForPublicFigure, res.Status)
	assert.Equal(t, entity.OwnerPublicFigure, res.Guide.OwnerType)
	assert.Empty(t, res.Guide.DisplayName)
	assert.Empty(t, res.Guide.TwitterHandle)
}

func TestUpsertForVoter(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeGuideRepo{}, nil, nil)

	res := svc.UpsertForVoter(ctx, 321, 4162)
	require.True(t, res.Success)
	assert.Equal(t, StatusCreatedForVoter, res.Status)
	assert.Equal(t, entity.OwnerVoter, res.Guide.OwnerType)
	assert.Equal(t, int64(321), res.Guide.OwnerVoterID)

	res = svc.UpsertForVoter(ctx, 321, 4162)
	assert.Equal(t, StatusUpdatedForVoter, res.Status)
	assert.False(t, res.Created)

	assert.Equal(t, StatusVariablesMissingForVoter, svc.UpsertForVoter(ctx, 0, 4162).Status)
	assert.Equal(t, StatusVariablesMissingForVoter, svc.UpsertForVoter(ctx, 321, 0).Status)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	guides := &fakeGuideRepo{guides: []*entity.VoterGuide{
		{ID: 1, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
	}}
	svc := newTestService(guides, nil, nil)

	assert.True(t, svc.Exists(ctx, "wv02org1", 4162))
	assert.False(t, svc.Exists(ctx, "wv02org1", 9999))
	assert.False(t, svc.Exists(ctx, "", 4162))
}

func TestRetrievePrecedence(t *testing.T) {
	ctx := context.Background()
	byID := &entity.VoterGuide{ID: 11, WeVoteID: "wv02vg11", OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162}
	bySpan := &entity.VoterGuide{ID: 12, WeVoteID: "wv02vg12", OrganizationWeVoteID: "wv02org2", VoteSmartTimeSpan: "2015-2016"}
	byPF := &entity.VoterGuide{ID: 13, WeVoteID: "wv02vg13", PublicFigureWeVoteID: "wv02pf7", GoogleCivicElectionID: 4162}
	byOwner := &entity.VoterGuide{ID: 14, WeVoteID: "wv02vg14", OwnerWeVoteID: "wv02voter3", GoogleCivicElectionID: 4162}
	guides := &fakeGuideRepo{guides: []*entity.VoterGuide{byID, bySpan, byPF, byOwner}, nextID: 14}
	svc := newTestService(guides, nil, nil)

	tests := []struct {
		name       string
		query      RetrieveQuery
		wantStatus Status
		wantID     int64
	}{
		{
			name:       "id wins over everything",
			query:      RetrieveQuery{ID: 12, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
			wantStatus: StatusFoundWithID,
			wantID:     12,
		},
		{
			name:       "organization and election",
			query:      RetrieveQuery{OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
			wantStatus: StatusFoundWithOrganization,
			wantID:     11,
		},
		{
			name:       "organization and time span",
			query:      RetrieveQuery{OrganizationWeVoteID: "wv02org2", VoteSmartTimeSpan: "2015-2016"},
			wantStatus: StatusFoundWithOrganizationAndTimeSpan,
			wantID:     12,
		},
		{
			name:       "public figure and election",
			query:      RetrieveQuery{PublicFigureWeVoteID: "wv02pf7", GoogleCivicElectionID: 4162},
			wantStatus: StatusFoundWithPublicFigure,
			wantID:     13,
		},
		{
			name:       "owner and election",
			query:      RetrieveQuery{OwnerWeVoteID: "wv02voter3", GoogleCivicElectionID: 4162},
			wantStatus: StatusFoundWithOwner,
			wantID:     14,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Retrieve(ctx, tt.query)
			require.True(t, res.Success)
			require.True(t, res.Found)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantID, res.Guide.ID)
		})
	}

	t.Run("not found is non fatal", func(t *testing.T) {
		res := svc.Retrieve(ctx, RetrieveQuery{ID: 99})
		assert.True(t, res.Success)
		assert.True(t, res.NotFound)
		assert.Equal(t, StatusNotFound, res.Status)
		assert.Nil(t, res.Guide)
	})

	t.Run("insufficient variables", func(t *testing.T) {
		res := svc.Retrieve(ctx, RetrieveQuery{OrganizationWeVoteID: "wv02org1"})
		assert.False(t, res.Success)
		assert.Equal(t, StatusInsufficientVariables, res.Status)
	})

	t.Run("ambiguous match surfaces first candidate", func(t *testing.T) {
		dup := &fakeGuideRepo{guides: []*entity.VoterGuide{
			{ID: 1, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
			{ID: 2, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
		}}
		res := newTestService(dup, nil, nil).Retrieve(ctx, RetrieveQuery{OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162})
		assert.False(t, res.Success)
		assert.True(t, res.MultipleFound)
		assert.Equal(t, StatusMoreThanOneFound, res.Status)
		require.NotNil(t, res.Guide)
		assert.Equal(t, int64(1), res.Guide.ID)
	})
}

func TestMostRecentForOrganization(t *testing.T) {
	ctx := context.Background()
	elections := &fakeElectionRepo{elections: []repository.Election{
		{GoogleCivicElectionID: 5000, ElectionDay: "2016-11-08"},
		{GoogleCivicElectionID: 4162, ElectionDay: "2014-11-04"},
	}}

	t.Run("time span axis wins", func(t *testing.T) {
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{
			{ID: 1, OrganizationWeVoteID: "wv02org1", VoteSmartTimeSpan: "2014"},
			{ID: 2, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 5000},
			{ID: 3, OrganizationWeVoteID: "wv02org1", VoteSmartTimeSpan: "2015-2016"},
		}}
		res := newTestService(guides, nil, elections).MostRecentForOrganization(ctx, "wv02org1")

		require.True(t, res.Success)
		assert.Equal(t, StatusMostRecentFoundByTimeSpan, res.Status)
		assert.Equal(t, int64(3), res.Guide.ID)
	})

	t.Run("falls back to newest election", func(t *testing.T) {
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{
			{ID: 1, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 4162},
			{ID: 2, OrganizationWeVoteID: "wv02org1", GoogleCivicElectionID: 5000},
		}}
		res := newTestService(guides, nil, elections).MostRecentForOrganization(ctx, "wv02org1")

		require.True(t, res.Success)
		assert.Equal(t, StatusMostRecentFoundByElection, res.Status)
		assert.Equal(t, int64(2), res.Guide.ID)
	})

	t.Run("nothing on either axis", func(t *testing.T) {
		res := newTestService(&fakeGuideRepo{}, nil, elections).MostRecentForOrganization(ctx, "wv02org1")

		assert.True(t, res.Success)
		assert.True(t, res.NotFound)
		assert.Equal(t, StatusMostRecentNotFoundForOrganization, res.Status)
	})
}

func TestRefreshCachedFields(t *testing.T) {
	ctx := context.Background()
	org := &repository.Organization{
		WeVoteID:      "wv02org1",
		Name:          "League",
		PhotoURL:      "https://example.org/logo.png",
		TwitterHandle: "league",
	}
	orgs := &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}

	t.Run("fills only empty fields and persists", func(t *testing.T) {
		guide := &entity.VoterGuide{
			ID: 1, WeVoteID: "wv02vg1", OwnerType: entity.OwnerOrganization,
			OrganizationWeVoteID: "wv02org1", DisplayName: "Hand-set name",
		}
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{guide}, nextID: 1}
		res := newTestService(guides, orgs, nil).RefreshCachedFields(ctx, guide)

		require.True(t, res.Success)
		assert.Equal(t, StatusSavedTwitterDetails, res.Status)
		assert.Equal(t, "Hand-set name", guide.DisplayName)
		assert.Equal(t, "https://example.org/logo.png", guide.ImageURL)
		assert.Equal(t, "league", guide.TwitterHandle)
	})

	t.Run("no write when nothing is empty", func(t *testing.T) {
		guide := &entity.VoterGuide{
			ID: 1, WeVoteID: "wv02vg1", OwnerType: entity.OwnerOrganization,
			OrganizationWeVoteID: "wv02org1", DisplayName: "n", ImageURL: "u",
			TwitterHandle: "h", TwitterDescription: "d",
		}
		res := newTestService(&fakeGuideRepo{failAll: true}, orgs, nil).RefreshCachedFields(ctx, guide)

		assert.True(t, res.Success)
		assert.Equal(t, StatusNoChangesSavedToTwitterDetails, res.Status)
	})

	t.Run("skips non organization guides", func(t *testing.T) {
		guide := &entity.VoterGuide{ID: 1, OwnerType: entity.OwnerPublicFigure, PublicFigureWeVoteID: "wv02pf7"}
		res := newTestService(&fakeGuideRepo{failAll: true}, orgs, nil).RefreshCachedFields(ctx, guide)

		assert.True(t, res.Success)
		assert.Empty(t, guide.DisplayName)
	})
}

func TestUpdateSocialStatistics(t *testing.T) {
	ctx := context.Background()
	org := &repository.Organization{
		WeVoteID: "wv02org1", TwitterHandle: "league",
		TwitterDescription: "ratings since 1920", TwitterFollowersCount: 5400,
	}
	orgs := &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}

	t.Run("updates only the follower count on the most recent guide", func(t *testing.T) {
		older := &entity.VoterGuide{
			ID: 1, WeVoteID: "wv02vg1", OwnerType: entity.OwnerOrganization,
			OrganizationWeVoteID: "wv02org1", VoteSmartTimeSpan: "2013",
			TwitterHandle: "old", TwitterFollowersCount: 3,
		}
		newer := &entity.VoterGuide{
			ID: 2, WeVoteID: "wv02vg2", OwnerType: entity.OwnerOrganization,
			OrganizationWeVoteID: "wv02org1", VoteSmartTimeSpan: "2016",
			TwitterHandle: "old", TwitterFollowersCount: 100,
		}
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{older, newer}, nextID: 2}
		res := newTestService(guides, orgs, nil).UpdateSocialStatistics(ctx, "wv02org1")

		require.True(t, res.Success)
		assert.Equal(t, StatusSavedTwitterDetails, res.Status)
		require.NotNil(t, res.Guide)
		assert.Equal(t, int64(2), res.Guide.ID)
		assert.Equal(t, int64(5400), newer.TwitterFollowersCount)
		assert.Equal(t, "old", newer.TwitterHandle, "handle is owned by the cached-field refresh")
		assert.Equal(t, int64(3), older.TwitterFollowersCount, "older guides are left alone")
	})

	t.Run("no write when the organization has no followers on record", func(t *testing.T) {
		zero := &repository.Organization{WeVoteID: "wv02org2", TwitterHandle: "quiet", TwitterFollowersCount: 0}
		guide := &entity.VoterGuide{
			ID: 1, OwnerType: entity.OwnerOrganization, OrganizationWeVoteID: "wv02org2",
			VoteSmartTimeSpan: "2016", TwitterHandle: "cached", TwitterFollowersCount: 7,
		}
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{guide}, nextID: 1}
		svc := newTestService(guides, &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org2": zero}}, nil)

		res := svc.UpdateSocialStatistics(ctx, "wv02org2")

		assert.True(t, res.Success)
		assert.Equal(t, StatusNoChangesSavedToTwitterDetails, res.Status)
		assert.Equal(t, int64(7), guide.TwitterFollowersCount)
		assert.Equal(t, "cached", guide.TwitterHandle)
	})

	t.Run("succeeds without writing when already current", func(t *testing.T) {
		guide := &entity.VoterGuide{
			ID: 1, OwnerType: entity.OwnerOrganization, OrganizationWeVoteID: "wv02org1",
			VoteSmartTimeSpan: "2016", TwitterFollowersCount: 5400,
		}
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{guide}, nextID: 1}
		res := newTestService(guides, orgs, nil).UpdateSocialStatistics(ctx, "wv02org1")

		assert.True(t, res.Success)
		assert.Equal(t, StatusNoChangesSavedToTwitterDetails, res.Status)
	})

	t.Run("no guide for the organization is a successful no-op", func(t *testing.T) {
		res := newTestService(&fakeGuideRepo{}, orgs, nil).UpdateSocialStatistics(ctx, "wv02org1")

		assert.True(t, res.Success)
		assert.Equal(t, StatusNoChangesSavedToTwitterDetails, res.Status)
	})

	t.Run("fails without an organization reference", func(t *testing.T) {
		res := newTestService(&fakeGuideRepo{}, orgs, nil).UpdateSocialStatistics(ctx, "")

		assert.False(t, res.Success)
		assert.Equal(t, StatusMissingOrganizationForSocialUpdate, res.Status)

		res = newTestService(&fakeGuideRepo{}, orgs, nil).UpdateSocialStatistics(ctx, "wv02org9")
		assert.False(t, res.Success)
		assert.Equal(t, StatusMissingOrganizationForSocialUpdate, res.Status)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an existing guide", func(t *testing.T) {
		guides := &fakeGuideRepo{guides: []*entity.VoterGuide{{ID: 1}}, nextID: 1}
		res := newTestService(guides, nil, nil).Delete(ctx, 1)

		assert.True(t, res.Success)
		assert.True(t, res.Deleted)
		assert.Empty(t, guides.guides)
	})

	t.Run("missing guide is a successful no-op", func(t *testing.T) {
		res := newTestService(&fakeGuideRepo{}, nil, nil).Delete(ctx, 42)

		assert.True(t, res.Success)
		assert.False(t, res.Deleted)
	})

	t.Run("storage fault fails the result", func(t *testing.T) {
		res := newTestService(&fakeGuideRepo{failAll: true}, nil, nil).Delete(ctx, 1)

		assert.False(t, res.Success)
	})
}

func TestDisplayFallbacks(t *testing.T) {
	ctx := context.Background()
	org := &repository.Organization{WeVoteID: "wv02org1", Name: "League", PhotoURL: "https://example.org/p.png"}
	orgs := &fakeOrgRepo{orgs: map[string]*repository.Organization{"wv02org1": org}}
	svc := newTestService(&fakeGuideRepo{}, orgs, nil)

	cached := &entity.VoterGuide{DisplayName: "Cached", ImageURL: "https://example.org/cached.png"}
	assert.Equal(t, "Cached", svc.DisplayNameFor(ctx, cached))
	assert.Equal(t, "https://example.org/cached.png", svc.ImageURLFor(ctx, cached))

	empty := &entity.VoterGuide{OwnerType: entity.OwnerOrganization, OrganizationWeVoteID: "wv02org1"}
	assert.Equal(t, "League", svc.DisplayNameFor(ctx, empty))
	assert.Equal(t, "https://example.org/p.png", svc.ImageURLFor(ctx, empty))

	orphan := &entity.VoterGuide{OwnerType: entity.OwnerOrganization, OrganizationWeVoteID: "wv02org9"}
	assert.Empty(t, svc.DisplayNameFor(ctx, orphan))
}
