package service

import (
    "testing"

    "github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
    attach, detach := Diff([]string{"a", "b"}, []string{"b", "c"})
    require.Equal(t, []string{"c"}, attach)
    require.Equal(t, []string{"a"}, detach)
}

func TestDiffUnchanged(t *testing.T) {
    attach, detach := Diff([]string{"a", "b"}, []string{"b", "a"})
    require.Empty(t, attach)
    require.Empty(t, detach)
}

func TestDiffEmptySets(t *testing.T) {
    attach, detach := Diff(nil, []string{"a"})
    require.Equal(t, []string{"a"}, attach)
    require.Empty(t, detach)

    attach, detach = Diff([]string{"a"}, nil)
    require.Empty(t, attach)
    require.Equal(t, []string{"a"}, detach)

    attach, detach = Diff(nil, nil)
    require.Empty(t, attach)
    require.Empty(t, detach)
}

func TestDiffDisjoint(t *testing.T) {
    // attach ∩ detach 恒为空，输入含重复也一样
    attach, detach := Diff([]string{"a", "a", "b"}, []string{"b", "c", "c"})
    require.Equal(t, []string{"c"}, attach)
    require.Equal(t, []string{"a"}, detach)
    for _, a := range attach {
        require.NotContains(t, detach, a)
    }
}

func TestTrackState(t *testing.T) {
    delta := TrackState(
        ContentSets{
            GroupIDs:  []string{"g1", "g2"},
            TagIDs:    []string{"t1"},
            SeriesIDs: []string{"s1"},
            MediaIDs:  nil,
        },
        ContentSets{
            GroupIDs:  []string{"g2", "g3"},
            TagIDs:    []string{"t1"},
            SeriesIDs: nil,
            MediaIDs:  []string{"m1"},
        },
    )

    require.Equal(t, []string{"g3"}, delta.AttachGroupIDs)
    require.Equal(t, []string{"g1"}, delta.DetachGroupIDs)
    require.Empty(t, delta.AttachTagIDs)
    require.Empty(t, delta.DetachTagIDs)
    require.Empty(t, delta.AttachSeriesIDs)
    require.Equal(t, []string{"s1"}, delta.DetachSeriesIDs)
    require.Equal(t, []string{"m1"}, delta.AttachMediaIDs)
    require.Empty(t, delta.DetachMediaIDs)
    require.False(t, delta.IsEmpty())
}

func TestTrackStateNoChange(t *testing.T) {
    sets := ContentSets{GroupIDs: []string{"g1"}, TagIDs: []string{"t1"}}
    require.True(t, TrackState(sets, sets).IsEmpty())
}
