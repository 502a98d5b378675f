package world

import (
	"sort"
	"time"
)

// QuestState is a player's progress on one quest.
type QuestState int8

const (
	QuestNotStarted QuestState = iota
	QuestActive
	QuestCompleted
)

func (s QuestState) String() string {
	switch s {
	case QuestNotStarted:
		return "NotStarted"
	case QuestActive:
		return "Active"
	case QuestCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// ActiveQuest records who handed out a quest in progress.
type ActiveQuest struct {
	QuestID uint16
	NpcID   int32
}

// CompletedQuest records when a quest was finished.
type CompletedQuest struct {
	QuestID     uint16
	CompletedAt time.Time
}

// QuestLog is one player's quest progress. A quest is in at most one of the
// active and completed sets.
type QuestLog struct {
	active    map[uint16]ActiveQuest
	completed map[uint16]time.Time
}

func NewQuestLog() *QuestLog {
	return &QuestLog{
		active:    make(map[uint16]ActiveQuest),
		completed: make(map[uint16]time.Time),
	}
}

func (q *QuestLog) State(questID uint16) QuestState {
	if _, ok := q.active[questID]; ok {
		return QuestActive
	}
	if _, ok := q.completed[questID]; ok {
		return QuestCompleted
	}
	return QuestNotStarted
}

func (q *QuestLog) IsActive(questID uint16) bool {
	_, ok := q.active[questID]
	return ok
}

// Start marks questID active from npcID. It returns false if the quest is
// already active.
func (q *QuestLog) Start(questID uint16, npcID int32) bool {
	if q.IsActive(questID) {
		return false
	}
	delete(q.completed, questID)
	q.active[questID] = ActiveQuest{QuestID: questID, NpcID: npcID}
	return true
}

// Remove drops an active quest back to NotStarted.
func (q *QuestLog) Remove(questID uint16) bool {
	if !q.IsActive(questID) {
		return false
	}
	delete(q.active, questID)
	return true
}

// Complete moves an active quest to the completed set.
func (q *QuestLog) Complete(questID uint16, at time.Time) bool {
	if !q.IsActive(questID) {
		return false
	}
	delete(q.active, questID)
	q.completed[questID] = at
	return true
}

// RestoreActive and RestoreCompleted rebuild the log from storage.
func (q *QuestLog) RestoreActive(a ActiveQuest) {
	q.active[a.QuestID] = a
}

func (q *QuestLog) RestoreCompleted(c CompletedQuest) {
	q.completed[c.QuestID] = c.CompletedAt
}

// Active returns the quests in progress ordered by quest ID.
func (q *QuestLog) Active() []ActiveQuest {
	out := make([]ActiveQuest, 0, len(q.active))
	for _, a := range q.active {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestID < out[j].QuestID })
	return out
}

// Completed returns the finished quests ordered by quest ID.
func (q *QuestLog) Completed() []CompletedQuest {
	out := make([]CompletedQuest, 0, len(q.completed))
	for id, at := range q.completed {
		out = append(out, CompletedQuest{QuestID: id, CompletedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestID < out[j].QuestID })
	return out
}
