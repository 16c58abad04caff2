package merge

import (
	"github.com/statloom/statloom/internal/domain/media"
	"github.com/statloom/statloom/internal/domain/meta"
)

// Social merges the engagement snapshots different sources took of the same
// post. Counts fold through the comparator, so a later zero snapshot never
// erases real engagement numbers.
func (m *Merger) Social(recs []media.Social) (*media.Social, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	if recs[0].Handle == "" {
		return nil, mandatoryFieldErr(meta.KindSocial, "handle")
	}
	out := recs[0]
	for _, r := range recs[1:] {
		out.Text = PickFirst(out.Text, r.Text)
		out.PostedAt = PickTime(out.PostedAt, r.PostedAt)
		out.Likes = PickFloat(out.Likes, r.Likes)
		out.Reposts = PickFloat(out.Reposts, r.Reposts)
	}
	return &out, nil
}

// News merges article records sharing a URL.
func (m *Merger) News(recs []media.News) (*media.News, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	if recs[0].URL == "" {
		return nil, mandatoryFieldErr(meta.KindNews, "url")
	}
	out := recs[0]
	for _, r := range recs[1:] {
		out.Title = PickFirst(out.Title, r.Title)
		out.Summary = PickFirst(out.Summary, r.Summary)
		out.PublishedAt = PickTime(out.PublishedAt, r.PublishedAt)
	}
	return &out, nil
}
