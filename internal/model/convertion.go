package model

import (
	"strconv"
	"time"

	"github.com/ywitter/backend/internal/entity"
)

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:         user.ID,
		Username:   user.Username,
		Avatar:     user.Avatar,
		IsVerified: user.IsVerified,
	}
}

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	result := User{
		ID:                 user.ID,
		Username:           user.Username,
		Bio:                user.Bio,
		Avatar:             user.Avatar,
		Role:               string(user.Role),
		IsVerified:         user.IsVerified,
		IsPrivate:          user.IsPrivate,
		IsModerator:        user.IsModerator,
		IsBanned:           user.IsBanned,
		CanReceiveMessages: user.CanReceiveMessages,
		CreatedAt:          user.CreatedAt.Format(DefaultTimeLayout),
	}

	if includeSensitive {
		result.Email = user.Email
	}

	return result
}

func ConvertPost(post *entity.Post, author ShortUser, liked, retweeted bool) Post {
	if post == nil {
		return Post{}
	}

	result := Post{
		ID:            post.ID,
		Author:        author,
		Content:       post.Content,
		MediaType:     string(post.MediaType),
		MediaFilename: post.MediaFilename,
		ReplyToID:     post.ReplyToID.String,
		IsEdited:      post.IsEdited,
		IsDeleted:     post.DeletedAt.Valid,
		LikeCount:     post.LikeCount,
		RetweetCount:  post.RetweetCount,
		ReplyCount:    post.ReplyCount,
		Liked:         liked,
		Retweeted:     retweeted,
		CreatedAt:     post.CreatedAt.Format(DefaultTimeLayout),
	}

	if result.IsDeleted {
		result.Content = ""
		result.MediaFilename = ""
	}

	return result
}

func ConvertEditHistory(history []entity.EditHistoryEntry) []EditHistoryEntry {
	result := []EditHistoryEntry{}
	for _, h := range history {
		result = append(result, EditHistoryEntry{
			Content:  h.Content,
			EditedAt: h.EditedAt.Format(DefaultTimeLayout),
		})
	}

	return result
}

func ConvertPollOption(option *entity.PollOption) PollOption {
	if option == nil {
		return PollOption{}
	}

	return PollOption{
		ID:       option.ID,
		Text:     option.Text,
		Position: option.Position,
		Votes:    option.Votes,
	}
}

func ConvertPoll(poll *entity.Poll, options []entity.PollOption, votedOptionID string, now time.Time) Poll {
	if poll == nil {
		return Poll{}
	}

	result := Poll{
		ID:            poll.ID,
		PostID:        poll.PostID,
		Question:      poll.Question,
		Options:       []PollOption{},
		Closed:        poll.IsClosed(now),
		EndTime:       poll.EndTime.Format(DefaultTimeLayout),
		VotedOptionID: votedOptionID,
	}

	for i := range options {
		result.Options = append(result.Options, ConvertPollOption(&options[i]))
		result.TotalVotes += options[i].Votes
	}

	return result
}

func ConvertNotification(notification *entity.Notification) Notification {
	if notification == nil {
		return Notification{}
	}

	return Notification{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Message:   notification.Message,
		ActorID:   notification.ActorID.String,
		PostID:    notification.PostID.String,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertReport(report *entity.Report) Report {
	if report == nil {
		return Report{}
	}

	result := Report{
		ID:             report.ID,
		ReporterID:     report.ReporterID,
		ReportedUserID: report.ReportedUserID.String,
		PostID:         report.PostID.String,
		Reason:         report.Reason,
		Status:         string(report.Status),
		ResolvedBy:     report.ResolvedBy.String,
		CreatedAt:      report.CreatedAt.Format(DefaultTimeLayout),
	}

	if report.ResolvedAt.Valid {
		result.ResolvedAt = report.ResolvedAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertMessage(message *entity.Message) Message {
	if message == nil {
		return Message{}
	}

	return Message{
		ID:          strconv.FormatInt(message.ID, 10),
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Body:        message.Body,
		CreatedAt:   message.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertDraft(draft *entity.Draft) Draft {
	if draft == nil {
		return Draft{}
	}

	return Draft{
		ID:            draft.ID,
		Content:       draft.Content,
		MediaType:     string(draft.MediaType),
		MediaFilename: draft.MediaFilename,
		UpdatedAt:     draft.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertLiveStream(stream *entity.LiveStream, user ShortUser, includeKey bool) LiveStream {
	if stream == nil {
		return LiveStream{}
	}

	result := LiveStream{
		ID:           stream.ID,
		User:         user,
		Title:        stream.Title,
		Description:  stream.Description,
		IsLive:       stream.IsLive,
		StartedAt:    stream.StartedAt.Format(DefaultTimeLayout),
		ViewersCount: stream.ViewersCount,
	}

	if includeKey {
		result.StreamKey = stream.StreamKey
	}

	if stream.EndedAt.Valid {
		result.EndedAt = stream.EndedAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertAdvertisement(ad *entity.Advertisement) Advertisement {
	if ad == nil {
		return Advertisement{}
	}

	return Advertisement{
		ID:          ad.ID,
		CreatedBy:   ad.CreatedBy,
		Title:       ad.Title,
		Content:     ad.Content,
		ImageURL:    ad.ImageURL,
		TargetURL:   ad.TargetURL,
		StartDate:   ad.StartDate.Format(DefaultTimeLayout),
		EndDate:     ad.EndDate.Format(DefaultTimeLayout),
		Budget:      ad.Budget,
		Spent:       ad.Spent,
		Status:      string(ad.Status),
		Impressions: ad.Impressions,
		Clicks:      ad.Clicks,
	}
}

func ConvertWebhook(webhook *entity.Webhook, includeSecret bool) Webhook {
	if webhook == nil {
		return Webhook{}
	}

	events := []string{}
	for _, e := range webhook.Events {
		events = append(events, string(e))
	}

	result := Webhook{
		ID:        webhook.ID,
		URL:       webhook.URL,
		Events:    events,
		IsActive:  webhook.IsActive,
		CreatedAt: webhook.CreatedAt.Format(DefaultTimeLayout),
	}

	if includeSecret {
		result.Secret = webhook.Secret
	}

	return result
}
