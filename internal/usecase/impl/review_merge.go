package impl

import (
	"time"

	"reviewdesk/internal/domain/entity"

	"github.com/google/uuid"
)

type mergeAction string

const (
	mergeInserted  mergeAction = "inserted"
	mergeUpdated   mergeAction = "updated"
	mergeUnchanged mergeAction = "unchanged"
)

// reviewScope is the tenant listing a sync page belongs to.
type reviewScope struct {
	TenantID   uuid.UUID
	AccountID  string
	LocationID string
}

// mergeReview folds one upstream review into the cached row, if any. The
// returned row is what should be stored; it is nil when nothing changed.
func mergeReview(scope reviewScope, existing *entity.CachedReview, upstream *entity.GBPReview) (*entity.CachedReview, mergeAction) {
	if existing == nil {
		row := &entity.CachedReview{
			ID:               uuid.New(),
			TenantID:         scope.TenantID,
			AccountID:        scope.AccountID,
			LocationID:       scope.LocationID,
			ExternalReviewID: upstream.ReviewID,
			ReplySource:      entity.ReplySourceNone,
		}
		applyUpstreamFields(row, upstream)
		if upstream.Reply != nil {
			takeUpstreamReply(row, upstream.Reply)
		}

		return row, mergeInserted
	}

	row := *existing
	applyUpstreamFields(&row, upstream)
	mergeReply(&row, existing, upstream)

	if sameReview(existing, &row) {
		return nil, mergeUnchanged
	}

	return &row, mergeUpdated
}

func applyUpstreamFields(row *entity.CachedReview, upstream *entity.GBPReview) {
	row.ReviewerName = upstream.ReviewerName
	row.ReviewerPhotoURL = optionalText(upstream.ReviewerPhotoURL)
	row.StarRating = upstream.StarRating
	row.Comment = optionalText(upstream.Comment)
	row.ReviewCreatedAt = upstream.CreateTime
	row.ReviewUpdatedAt = upstream.UpdateTime
}

// mergeReply applies last-writer-wins on the reply. A reply published from
// here survives until Google reports a strictly newer one; ties keep local.
func mergeReply(row, existing *entity.CachedReview, upstream *entity.GBPReview) {
	local := existing.ReplySource == entity.ReplySourceThisSystem && existing.HasReply()
	localAt := timeOrZero(existing.ReplyUpdatedAt)

	if upstream.Reply == nil {
		// Google may not list a reply we just posted yet.
		if local && localAt.After(upstream.UpdateTime) {
			return
		}
		row.ReplyText = nil
		row.ReplyUpdatedAt = nil
		row.ReplySource = entity.ReplySourceNone
		row.GenerationID = nil

		return
	}

	if local {
		if *existing.ReplyText == upstream.Reply.Comment {
			if upstream.Reply.UpdateTime.After(localAt) {
				at := upstream.Reply.UpdateTime
				row.ReplyUpdatedAt = &at
			}

			return
		}
		if !upstream.Reply.UpdateTime.After(localAt) {
			return
		}
	}

	takeUpstreamReply(row, upstream.Reply)
}

func takeUpstreamReply(row *entity.CachedReview, reply *entity.GBPReviewReply) {
	text := reply.Comment
	at := reply.UpdateTime
	row.ReplyText = &text
	row.ReplyUpdatedAt = &at
	row.ReplySource = entity.ReplySourceExternal
	row.GenerationID = nil
}

// sameReview compares every column a sync can write.
func sameReview(a, b *entity.CachedReview) bool {
	return a.ReviewerName == b.ReviewerName &&
		equalText(a.ReviewerPhotoURL, b.ReviewerPhotoURL) &&
		a.StarRating == b.StarRating &&
		equalText(a.Comment, b.Comment) &&
		a.ReviewCreatedAt.Equal(b.ReviewCreatedAt) &&
		a.ReviewUpdatedAt.Equal(b.ReviewUpdatedAt) &&
		equalText(a.ReplyText, b.ReplyText) &&
		equalTime(a.ReplyUpdatedAt, b.ReplyUpdatedAt) &&
		a.ReplySource == b.ReplySource &&
		equalText(a.GenerationID, b.GenerationID)
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Equal(*b)
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}
