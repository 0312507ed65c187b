package dnd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceplan-cli/internal/model"
)

func TestAdjustForRemoval(t *testing.T) {
	cases := []struct {
		insertAt int
		removed  []int
		want     int
	}{
		{insertAt: 3, removed: []int{0}, want: 2},
		{insertAt: 1, removed: []int{1}, want: 1},
		{insertAt: 0, removed: []int{2}, want: 0},
		{insertAt: 5, removed: []int{1, 2}, want: 3},
		{insertAt: 2, removed: []int{1, 2, 3}, want: 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, adjustForRemoval(tc.insertAt, tc.removed...), "%+v", tc)
	}
}

func TestCommitRequiresTarget(t *testing.T) {
	secs := []model.Section{section("s0", drill("a"))}
	_, _, err := Commit(Session{Active: true, DragType: DragItem}, secs)
	assert.ErrorIs(t, err, ErrNoTarget)

	_, _, err = Commit(Session{
		Active:       true,
		DragType:     DragSection,
		Target:       Target{Kind: TargetItem, ItemID: "a"},
		DropPosition: PositionAfter,
	}, secs)
	assert.Error(t, err)
}

func TestCommitSectionOutOfRange(t *testing.T) {
	secs := []model.Section{section("s0"), section("s1")}
	_, _, err := Commit(Session{
		Active:       true,
		DragType:     DragSection,
		Source:       Source{SectionIdx: 4},
		Target:       Target{Kind: TargetSection, SectionIdx: 0},
		DropPosition: PositionBefore,
	}, secs)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCommitSectionFollowsIDAfterDrift(t *testing.T) {
	secs := []model.Section{section("s1"), section("s0"), section("s2")}
	out, changed, err := Commit(Session{
		Active:       true,
		DragType:     DragSection,
		Source:       Source{SectionIdx: 0, SectionID: "s0"},
		Target:       Target{Kind: TargetSection, SectionIdx: 2, SectionID: "s2"},
		DropPosition: PositionAfter,
	}, secs)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, []string{"s1", "s2", "s0"}, sectionIDs(out))
}

func groupFixture() []model.Section {
	return []model.Section{
		section("s0",
			drill("a"),
			member("p1", "g", "T1", "T1", "T2"),
			member("p2", "g", "T2", "T1", "T2"),
			member("p3", "g", "T1", "T1", "T2"),
			drill("b"),
		),
		section("s1",
			drill("x"),
			member("r1", "h", "T1", "T1", "T2"),
			member("r2", "h", "T2", "T1", "T2"),
		),
		section("s2"),
	}
}

// itemSessions enumerates every item drag the engine can produce on secs.
func itemSessions(secs []model.Section) []Session {
	var out []Session
	for si, s := range secs {
		for ii, src := range s.Items {
			base := Session{
				Active:   true,
				DragType: DragItem,
				Source: Source{
					SectionIdx: si, SectionID: s.ID, ItemIdx: ii, ItemID: src.ID, ItemName: src.Name,
					GroupID: src.GroupID(), Timeline: src.Timeline(), TimelineIdx: -1,
				},
			}
			for ti, ts := range secs {
				for tj, tgt := range ts.Items {
					if tgt.ID == src.ID {
						continue
					}
					for _, pos := range []DropPosition{PositionBefore, PositionAfter} {
						sess := base
						sess.Target = Target{Kind: TargetItem, SectionIdx: ti, SectionID: ts.ID, ItemIdx: tj, ItemID: tgt.ID, GroupID: tgt.GroupID(), Timeline: tgt.Timeline()}
						sess.DropPosition = pos
						if tgt.GroupID() != "" {
							sess.SameTimeline = si == ti && src.GroupID() == tgt.GroupID() && src.Timeline() == tgt.Timeline()
							if !sess.SameTimeline {
								sess.DropPosition = PositionInside
							}
						}
						out = append(out, sess)
					}
				}
				for _, gid := range model.GroupIDs(ts.Items) {
					for _, pos := range []DropPosition{PositionBefore, PositionAfter} {
						sess := base
						sess.Target = Target{Kind: TargetGroup, SectionIdx: ti, SectionID: ts.ID, ItemIdx: -1, GroupID: gid}
						sess.DropPosition = pos
						out = append(out, sess)
					}
					for _, tl := range []string{"T1", "T2", "T3"} {
						sess := base
						sess.Target = Target{Kind: TargetTimeline, SectionIdx: ti, SectionID: ts.ID, ItemIdx: -1, GroupID: gid, Timeline: tl}
						sess.DropPosition = PositionInside
						sess.SameTimeline = si == ti && src.GroupID() == gid && src.Timeline() == tl
						out = append(out, sess)
					}
				}
				if len(ts.Items) == 0 {
					sess := base
					sess.Target = Target{Kind: TargetEmptySection, SectionIdx: ti, SectionID: ts.ID}
					sess.DropPosition = PositionInside
					out = append(out, sess)
				}
			}
		}
	}
	return out
}

func groupSessions(secs []model.Section) []Session {
	var out []Session
	for si, s := range secs {
		for _, gid := range model.GroupIDs(s.Items) {
			base := Session{
				Active:   true,
				DragType: DragGroup,
				Source:   Source{SectionIdx: si, SectionID: s.ID, ItemIdx: -1, GroupID: gid, TimelineIdx: -1},
			}
			for ti, ts := range secs {
				for tj, tgt := range ts.Items {
					if si == ti && tgt.GroupID() == gid {
						continue
					}
					for _, pos := range []DropPosition{PositionBefore, PositionAfter} {
						sess := base
						sess.Target = Target{Kind: TargetItem, SectionIdx: ti, SectionID: ts.ID, ItemIdx: tj, ItemID: tgt.ID, GroupID: tgt.GroupID(), Timeline: tgt.Timeline()}
						sess.DropPosition = pos
						out = append(out, sess)
					}
				}
				for _, tg := range model.GroupIDs(ts.Items) {
					if si == ti && tg == gid {
						continue
					}
					for _, pos := range []DropPosition{PositionBefore, PositionAfter} {
						sess := base
						sess.Target = Target{Kind: TargetGroup, SectionIdx: ti, SectionID: ts.ID, ItemIdx: -1, GroupID: tg}
						sess.DropPosition = pos
						out = append(out, sess)
					}
				}
				if len(ts.Items) == 0 {
					sess := base
					sess.Target = Target{Kind: TargetEmptySection, SectionIdx: ti, SectionID: ts.ID}
					sess.DropPosition = PositionInside
					out = append(out, sess)
				}
			}
		}
	}
	return out
}

func requireContiguousGroups(t *testing.T, secs []model.Section, msg string) {
	t.Helper()
	for _, s := range secs {
		for _, gid := range model.GroupIDs(s.Items) {
			members := model.GroupMembers(s.Items, gid)
			for i := 1; i < len(members); i++ {
				require.Equal(t, members[i-1]+1, members[i], "%s: group %s split in %s: %v", msg, gid, s.ID, ids(s.Items))
			}
		}
	}
}

func TestEveryDropKeepsListInvariants(t *testing.T) {
	secs := groupFixture()
	pristine := model.CloneSections(secs)
	total := model.CountItems(secs)

	sessions := append(itemSessions(secs), groupSessions(secs)...)
	require.NotEmpty(t, sessions)
	for _, s := range sessions {
		label := fmt.Sprintf("%s %s -> %s %s/%s/%s %s", s.DragType, s.Source.ItemID+s.Source.GroupID,
			s.Target.Kind, s.Target.SectionID, s.Target.ItemID+s.Target.GroupID, s.Target.Timeline, s.DropPosition)

		out, changed, err := Commit(s, secs)
		require.NoError(t, err, label)
		require.Equal(t, secs, pristine, "%s: input mutated", label)
		if !changed {
			require.Equal(t, pristine, out, label)
			continue
		}
		require.Equal(t, total, model.CountItems(out), label)
		require.NoError(t, model.ValidateGroups(out), label)
		requireContiguousGroups(t, out, label)
	}
}

func TestEverySectionDropKeepsOrderDense(t *testing.T) {
	secs := []model.Section{section("s0"), section("s1"), section("s2"), section("s3")}
	for src := range secs {
		for dst := range secs {
			if src == dst {
				continue
			}
			for _, pos := range []DropPosition{PositionBefore, PositionAfter} {
				out, _, err := Commit(Session{
					Active:       true,
					DragType:     DragSection,
					Source:       Source{SectionIdx: src, SectionID: secs[src].ID},
					Target:       Target{Kind: TargetSection, SectionIdx: dst, SectionID: secs[dst].ID},
					DropPosition: pos,
				}, secs)
				require.NoError(t, err)
				require.Len(t, out, len(secs))
				for i, s := range out {
					require.Equal(t, i, s.Order)
				}
				assert.ElementsMatch(t, sectionIDs(secs), sectionIDs(out))
			}
		}
	}
}
