package guidelist

import (
	"sort"

	"voter-guides/internal/domain/entity"
)

// CollapseOlderPerOrganization drops, for each organization, every
// time-span-scoped guide whose span starts in an earlier year than the
// newest span seen for that organization. Spans are compared on their
// leading four digits only, so "2015" and "2015-2016" tie and both survive.
// Election-scoped guides pass through untouched. Input order is preserved.
func CollapseOlderPerOrganization(guides []*entity.VoterGuide) []*entity.VoterGuide {
	newestYear := make(map[string]int)
	for _, guide := range guides {
		if !guide.TimeSpanScoped() {
			continue
		}
		year := entity.TimeSpanYear(guide.VoteSmartTimeSpan)
		if year > newestYear[guide.OrganizationWeVoteID] {
			newestYear[guide.OrganizationWeVoteID] = year
		}
	}

	kept := make([]*entity.VoterGuide, 0, len(guides))
	for _, guide := range guides {
		if !guide.TimeSpanScoped() {
			kept = append(kept, guide)
			continue
		}
		if entity.TimeSpanYear(guide.VoteSmartTimeSpan) >= newestYear[guide.OrganizationWeVoteID] {
			kept = append(kept, guide)
		}
	}
	return kept
}

// SortByFollowers orders guides by cached twitter followers count, ascending
// or descending. The sort is stable so equal counts keep their input order.
func SortByFollowers(guides []*entity.VoterGuide, desc bool) {
	sort.SliceStable(guides, func(i, j int) bool {
		if desc {
			return guides[i].TwitterFollowersCount > guides[j].TwitterFollowersCount
		}
		return guides[i].TwitterFollowersCount < guides[j].TwitterFollowersCount
	})
}
