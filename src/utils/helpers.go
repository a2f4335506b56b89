package utils

import (
	"filae/src/models"
	"filae/src/types"
	"strings"

	"github.com/google/uuid"
)

// GenerateTicketCode builds a short human-presentable code in the form
// "<2-letter-prefix>-<4-char-suffix>". The prefix comes from the
// establishment name (padded with X when the name is shorter than two
// characters), the suffix from a fresh UUID. Collisions are possible in
// principle; callers re-check against the store and regenerate.
func GenerateTicketCode(establishmentName string) string {
	name := strings.ToUpper(strings.TrimSpace(establishmentName))
	prefix := name
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	for len(prefix) < 2 {
		prefix += "X"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return prefix + "-" + suffix
}

func QueueEntryResponse(entry *models.QueueEntry) *types.APIResponseQueueEntry {
	if entry == nil {
		return nil
	}
	joinedAt := entry.JoinedAt
	return &types.APIResponseQueueEntry{
		ID:              entry.ID,
		TicketCode:      entry.TicketCode,
		EstablishmentID: entry.EstablishmentID,
		UserID:          entry.UserID,
		PartySize:       entry.PartySize,
		Notes:           entry.Notes,
		Status:          string(entry.Status),
		Position:        entry.Position,
		TotalInQueue:    entry.TotalInQueue,
		EstimatedWait:   entry.EstimatedWait,
		JoinedAt:        &joinedAt,
		CalledAt:        entry.CalledAt,
		FinishedAt:      entry.FinishedAt,
		CancelledAt:     entry.CancelledAt,
	}
}

func QueueEntryResponses(entries []models.QueueEntry) []*types.APIResponseQueueEntry {
	out := make([]*types.APIResponseQueueEntry, 0, len(entries))
	for i := range entries {
		out = append(out, QueueEntryResponse(&entries[i]))
	}
	return out
}
