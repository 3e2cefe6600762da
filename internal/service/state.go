package service

import (
    "github.com/samber/lo"
)

// StateDelta 一次内容变更中每个关联关系的 attach/detach 增量。
// attach = next − prev，detach = prev − next，两者恒不相交；
// 在变更提交点计算一次，下游（fanout、标签计数、系列成员）各自消费，
// 不允许事后用过期数据重算。
type StateDelta struct {
    AttachGroupIDs  []string
    DetachGroupIDs  []string
    AttachTagIDs    []string
    DetachTagIDs    []string
    AttachSeriesIDs []string
    DetachSeriesIDs []string
    AttachMediaIDs  []string
    DetachMediaIDs  []string
}

// IsEmpty 所有关系均无变化
func (d StateDelta) IsEmpty() bool {
    return len(d.AttachGroupIDs) == 0 && len(d.DetachGroupIDs) == 0 &&
        len(d.AttachTagIDs) == 0 && len(d.DetachTagIDs) == 0 &&
        len(d.AttachSeriesIDs) == 0 && len(d.DetachSeriesIDs) == 0 &&
        len(d.AttachMediaIDs) == 0 && len(d.DetachMediaIDs) == 0
}

// Diff 纯集合差，对任意两个有限集是全函数，无副作用
func Diff(prev, next []string) (attach, detach []string) {
    attach = lo.Without(lo.Uniq(next), prev...)
    detach = lo.Without(lo.Uniq(prev), next...)
    return attach, detach
}

// ContentSets 参与 diff 的各关联集合
type ContentSets struct {
    GroupIDs  []string
    TagIDs    []string
    SeriesIDs []string
    MediaIDs  []string
}

// TrackState 对比前后两个版本的关联集合，产出完整增量
func TrackState(prev, next ContentSets) StateDelta {
    var d StateDelta
    d.AttachGroupIDs, d.DetachGroupIDs = Diff(prev.GroupIDs, next.GroupIDs)
    d.AttachTagIDs, d.DetachTagIDs = Diff(prev.TagIDs, next.TagIDs)
    d.AttachSeriesIDs, d.DetachSeriesIDs = Diff(prev.SeriesIDs, next.SeriesIDs)
    d.AttachMediaIDs, d.DetachMediaIDs = Diff(prev.MediaIDs, next.MediaIDs)
    return d
}

// ContentChanged 变更提交时随之产出的领域事件，由调用方显式分发给各处理器
type ContentChanged struct {
    ContentID   string
    OwnerID     string
    OldGroupIDs []string
    NewGroupIDs []string
    Delta       StateDelta
}
