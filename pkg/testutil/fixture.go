package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

const (
	Password       = "password"
	TOTPSecret     = "JBSWY3DPEHPK3PXP"
	BackupCode     = "BACKUPCODE"
	passwordCost   = bcrypt.MinCost
	fixtureTimeGap = time.Hour
)

var (
	Now = time.Now()

	passwordHash   = mustHash(Password)
	backupCodeHash = mustHash(BackupCode)

	// User1 is a regular user followed by User3 and following User2.
	User1 = entity.User{
		Base:               entity.Base{ID: "user1", CreatedAt: Now.Add(-10 * fixtureTimeGap)},
		Username:           "alice",
		Email:              "alice@ywitter.com",
		PasswordHash:       passwordHash,
		Role:               entity.RoleUser,
		CanReceiveMessages: true,
	}

	// User2 has a private profile and two factor authentication enabled.
	User2 = entity.User{
		Base:               entity.Base{ID: "user2", CreatedAt: Now.Add(-10 * fixtureTimeGap)},
		Username:           "bob",
		Email:              "bob@ywitter.com",
		PasswordHash:       passwordHash,
		Role:               entity.RoleUser,
		IsPrivate:          true,
		CanReceiveMessages: true,
	}

	// User3 is a moderator.
	User3 = entity.User{
		Base:               entity.Base{ID: "user3", CreatedAt: Now.Add(-10 * fixtureTimeGap)},
		Username:           "charlie",
		Email:              "charlie@ywitter.com",
		PasswordHash:       passwordHash,
		Role:               entity.RoleUser,
		IsModerator:        true,
		CanReceiveMessages: true,
	}

	// User4 is the super admin.
	User4 = entity.User{
		Base:               entity.Base{ID: "user4", CreatedAt: Now.Add(-10 * fixtureTimeGap)},
		Username:           "root",
		Email:              "root@ywitter.com",
		PasswordHash:       passwordHash,
		Role:               entity.RoleSuperAdmin,
		IsVerified:         true,
		CanReceiveMessages: true,
	}

	// User5 does not accept messages.
	User5 = entity.User{
		Base:         entity.Base{ID: "user5", CreatedAt: Now.Add(-10 * fixtureTimeGap)},
		Username:     "dave",
		Email:        "dave@ywitter.com",
		PasswordHash: passwordHash,
		Role:         entity.RoleUser,
	}

	// User6 is banned.
	User6 = entity.User{
		Base:               entity.Base{ID: "user6", CreatedAt: Now.Add(-10 * fixtureTimeGap)},
		Username:           "mallory",
		Email:              "mallory@ywitter.com",
		PasswordHash:       passwordHash,
		Role:               entity.RoleUser,
		IsBanned:           true,
		CanReceiveMessages: true,
	}

	Users = []*entity.User{&User1, &User2, &User3, &User4, &User5, &User6}

	Follows = []entity.Follow{
		{FollowerID: User1.ID, FollowedID: User2.ID},
		{FollowerID: User3.ID, FollowedID: User1.ID},
	}

	UserSecurity2 = entity.UserSecurity{
		UserID:           User2.ID,
		TwoFactorEnabled: true,
		TwoFactorSecret:  TOTPSecret,
		BackupCodes:      entity.Array[string]{backupCodeHash},
	}

	Hashtag1 = entity.Hashtag{
		Base: entity.Base{ID: "hashtag1"},
		Name: "golang",
	}

	// Post1 has one like by User2 and one reply.
	Post1 = entity.Post{
		Base:       entity.Base{ID: "post1", CreatedAt: Now.Add(-5 * fixtureTimeGap)},
		AuthorID:   User1.ID,
		Content:    "hello #golang world",
		LikeCount:  1,
		ReplyCount: 1,
	}

	Post2 = entity.Post{
		Base:     entity.Base{ID: "post2", CreatedAt: Now.Add(-4 * fixtureTimeGap)},
		AuthorID: User2.ID,
		Content:  "private thoughts",
	}

	Post3 = entity.Post{
		Base:      entity.Base{ID: "post3", CreatedAt: Now.Add(-3 * fixtureTimeGap)},
		AuthorID:  User3.ID,
		Content:   "nice post @alice",
		ReplyToID: sql.NullString{Valid: true, String: Post1.ID},
	}

	// Post4 holds the open Poll1.
	Post4 = entity.Post{
		Base:      entity.Base{ID: "post4", CreatedAt: Now.Add(-2 * fixtureTimeGap)},
		AuthorID:  User1.ID,
		Content:   "Which language?",
		MediaType: entity.MediaPoll,
	}

	// Post5 holds the closed Poll2.
	Post5 = entity.Post{
		Base:      entity.Base{ID: "post5", CreatedAt: Now.Add(-1 * fixtureTimeGap)},
		AuthorID:  User5.ID,
		Content:   "Tea or coffee?",
		MediaType: entity.MediaPoll,
	}

	Posts = []*entity.Post{&Post1, &Post2, &Post3, &Post4, &Post5}

	Like1 = entity.Like{UserID: User2.ID, PostID: Post1.ID}

	Poll1 = entity.Poll{
		Base:     entity.Base{ID: "poll1"},
		PostID:   Post4.ID,
		Question: Post4.Content,
		EndTime:  Now.Add(24 * time.Hour),
	}

	Poll2 = entity.Poll{
		Base:     entity.Base{ID: "poll2"},
		PostID:   Post5.ID,
		Question: Post5.Content,
		EndTime:  Now.Add(-time.Minute),
	}

	// Option1 has the vote of User2.
	Option1 = entity.PollOption{Base: entity.Base{ID: "option1"}, PollID: Poll1.ID, Text: "Go", Position: 0, Votes: 1}
	Option2 = entity.PollOption{Base: entity.Base{ID: "option2"}, PollID: Poll1.ID, Text: "Rust", Position: 1}
	Option3 = entity.PollOption{Base: entity.Base{ID: "option3"}, PollID: Poll2.ID, Text: "Tea", Position: 0}
	Option4 = entity.PollOption{Base: entity.Base{ID: "option4"}, PollID: Poll2.ID, Text: "Coffee", Position: 1}

	PollOptions = []*entity.PollOption{&Option1, &Option2, &Option3, &Option4}

	Vote1 = entity.PollVote{UserID: User2.ID, PollID: Poll1.ID, OptionID: Option1.ID}

	Notification1 = entity.Notification{
		Base:    entity.Base{ID: "notification1", CreatedAt: Now.Add(-3 * fixtureTimeGap)},
		UserID:  User1.ID,
		Type:    entity.NotificationMention,
		Message: `You were mentioned in a reply: "nice post @alice"`,
		ActorID: sql.NullString{Valid: true, String: User3.ID},
		PostID:  sql.NullString{Valid: true, String: Post3.ID},
	}

	Notification2 = entity.Notification{
		Base:    entity.Base{ID: "notification2", CreatedAt: Now.Add(-6 * fixtureTimeGap)},
		UserID:  User1.ID,
		Type:    entity.NotificationMention,
		Message: `You were mentioned in a post: "hi @alice"`,
		IsRead:  true,
	}

	Notifications = []*entity.Notification{&Notification1, &Notification2}

	// Report1 is a pending report of User1 on Post2.
	Report1 = entity.Report{
		Base:           entity.Base{ID: "report1", CreatedAt: Now.Add(-3 * fixtureTimeGap)},
		ReporterID:     User1.ID,
		ReportedUserID: sql.NullString{Valid: true, String: User2.ID},
		PostID:         sql.NullString{Valid: true, String: Post2.ID},
		Reason:         "spam",
		Status:         entity.ReportPending,
		PendingKey:     sql.NullString{Valid: true, String: "user1:post:post2"},
	}

	// Report2 is a pending report of User1 on User5.
	Report2 = entity.Report{
		Base:           entity.Base{ID: "report2", CreatedAt: Now.Add(-2 * fixtureTimeGap)},
		ReporterID:     User1.ID,
		ReportedUserID: sql.NullString{Valid: true, String: User5.ID},
		Reason:         "abuse",
		Status:         entity.ReportPending,
		PendingKey:     sql.NullString{Valid: true, String: "user1:user:user5"},
	}

	// Report3 was already resolved as false.
	Report3 = entity.Report{
		Base:           entity.Base{ID: "report3", CreatedAt: Now.Add(-8 * fixtureTimeGap)},
		ReporterID:     User2.ID,
		ReportedUserID: sql.NullString{Valid: true, String: User1.ID},
		Reason:         "abuse",
		Status:         entity.ReportFalse,
		ResolvedBy:     sql.NullString{Valid: true, String: User3.ID},
		ResolvedAt:     sql.NullTime{Valid: true, Time: Now.Add(-7 * fixtureTimeGap)},
	}

	// Report4 is a pending report on the super admin.
	Report4 = entity.Report{
		Base:           entity.Base{ID: "report4", CreatedAt: Now.Add(-1 * fixtureTimeGap)},
		ReporterID:     User2.ID,
		ReportedUserID: sql.NullString{Valid: true, String: User4.ID},
		Reason:         "abuse",
		Status:         entity.ReportPending,
		PendingKey:     sql.NullString{Valid: true, String: "user2:user:user4"},
	}

	Reports = []*entity.Report{&Report1, &Report2, &Report3, &Report4}

	Message1 = entity.Message{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1001, CreatedAt: Now.Add(-2 * fixtureTimeGap)},
		SenderID:      User1.ID,
		RecipientID:   User2.ID,
		Body:          "hi bob",
	}

	Message2 = entity.Message{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1002, CreatedAt: Now.Add(-1 * fixtureTimeGap)},
		SenderID:      User2.ID,
		RecipientID:   User1.ID,
		Body:          "hello alice",
	}

	Message3 = entity.Message{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1000, CreatedAt: Now.Add(-3 * fixtureTimeGap)},
		SenderID:      User3.ID,
		RecipientID:   User1.ID,
		Body:          "welcome",
	}

	Messages = []*entity.Message{&Message1, &Message2, &Message3}

	Draft1 = entity.Draft{
		Base:    entity.Base{ID: "draft1"},
		UserID:  User1.ID,
		Content: "a draft about #golang",
	}

	Stream1 = entity.LiveStream{
		Base:      entity.Base{ID: "stream1"},
		UserID:    User1.ID,
		Title:     "Live coding",
		StreamKey: "streamkey1",
		IsLive:    true,
		StartedAt: Now.Add(-fixtureTimeGap),
	}

	Stream2 = entity.LiveStream{
		Base:      entity.Base{ID: "stream2"},
		UserID:    User2.ID,
		Title:     "Ended stream",
		StreamKey: "streamkey2",
		StartedAt: Now.Add(-3 * fixtureTimeGap),
		EndedAt:   sql.NullTime{Valid: true, Time: Now.Add(-2 * fixtureTimeGap)},
	}

	Streams = []*entity.LiveStream{&Stream1, &Stream2}

	Ad1 = entity.Advertisement{
		Base:      entity.Base{ID: "ad1"},
		CreatedBy: User4.ID,
		Title:     "Pending ad",
		Content:   "Buy now",
		TargetURL: "https://example.com/pending",
		StartDate: Now.Add(-24 * time.Hour),
		EndDate:   Now.Add(7 * 24 * time.Hour),
		Budget:    100,
		Status:    entity.AdPending,
	}

	Ad2 = entity.Advertisement{
		Base:      entity.Base{ID: "ad2"},
		CreatedBy: User4.ID,
		Title:     "Active ad",
		Content:   "Try it",
		TargetURL: "https://example.com/active",
		StartDate: Now.Add(-24 * time.Hour),
		EndDate:   Now.Add(7 * 24 * time.Hour),
		Budget:    100,
		Status:    entity.AdActive,
	}

	Ads = []*entity.Advertisement{&Ad1, &Ad2}

	Webhook1 = entity.Webhook{
		Base:     entity.Base{ID: "webhook1"},
		UserID:   User1.ID,
		URL:      "https://example.com/hook",
		Events:   entity.Array[entity.EventType]{entity.EventPostLiked, entity.EventUserFollowed},
		Secret:   "webhook-secret",
		IsActive: true,
	}
)

func mustHash(s string) string {
	b, err := bcrypt.GenerateFromPassword([]byte(s), passwordCost)
	if err != nil {
		panic(err)
	}

	return string(b)
}

// CreateFixtureDb inserts copies of all fixtures into the database of ctx.
func CreateFixtureDb(ctx context.Context) {
	insertAll(ctx, Users)
	insertAll(ctx, []*entity.UserSecurity{&UserSecurity2})
	insertAll(ctx, ptrs(Follows))
	insertAll(ctx, Posts)
	insertAll(ctx, []*entity.Hashtag{&Hashtag1})
	insertAll(ctx, []*entity.PostHashtag{{PostID: Post1.ID, HashtagID: Hashtag1.ID, CreatedAt: Post1.CreatedAt}})
	insertAll(ctx, []*entity.Like{&Like1})
	insertAll(ctx, []*entity.Poll{&Poll1, &Poll2})
	insertAll(ctx, PollOptions)
	insertAll(ctx, []*entity.PollVote{&Vote1})
	insertAll(ctx, Notifications)
	insertAll(ctx, Reports)
	insertAll(ctx, Messages)
	insertAll(ctx, []*entity.Draft{&Draft1})
	insertAll(ctx, Streams)
	insertAll(ctx, Ads)
	insertAll(ctx, []*entity.Webhook{&Webhook1})
}

func insertAll[T any](ctx context.Context, fixtures []*T) {
	for _, f := range fixtures {
		data := *f
		if err := xcontext.DB(ctx).Omit(clause.Associations).Create(&data).Error; err != nil {
			panic(err)
		}
	}
}

func ptrs[T any](values []T) []*T {
	result := make([]*T, 0, len(values))
	for i := range values {
		result = append(result, &values[i])
	}

	return result
}
