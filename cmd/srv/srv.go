package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"github.com/ywitter/backend/config"
	"github.com/ywitter/backend/internal/domain"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/kafka"
	"github.com/ywitter/backend/pkg/logger"
	"github.com/ywitter/backend/pkg/pubsub"
	"github.com/ywitter/backend/pkg/token"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	publisher   pubsub.Publisher
	searchIndex search.Index

	userRepo         repository.UserRepository
	userSecurityRepo repository.UserSecurityRepository
	followRepo       repository.FollowRepository
	postRepo         repository.PostRepository
	hashtagRepo      repository.HashtagRepository
	likeRepo         repository.LikeRepository
	retweetRepo      repository.RetweetRepository
	reactionRepo     repository.ReactionRepository
	pollRepo         repository.PollRepository
	notificationRepo repository.NotificationRepository
	reportRepo       repository.ReportRepository
	messageRepo      repository.MessageRepository
	draftRepo        repository.DraftRepository
	liveStreamRepo   repository.LiveStreamRepository
	adRepo           repository.AdvertisementRepository
	webhookRepo      repository.WebhookRepository

	userDomain         domain.UserDomain
	securityDomain     domain.SecurityDomain
	followDomain       domain.FollowDomain
	postDomain         domain.PostDomain
	engagementDomain   domain.EngagementDomain
	pollDomain         domain.PollDomain
	notificationDomain domain.NotificationDomain
	moderationDomain   domain.ModerationDomain
	messageDomain      domain.MessageDomain
	draftDomain        domain.DraftDomain
	liveStreamDomain   domain.LiveStreamDomain
	adDomain           domain.AdvertisementDomain
	webhookDomain      domain.WebhookDomain
}

// setup loads the configurations and the logger shared by every command.
func (s *srv) setup(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(cfg.Log.Level, cfg.Log.Pretty))
	s.ctx = xcontext.WithTokenEngine(s.ctx, token.NewEngine(cfg.Auth.Issuer, cfg.Auth.TokenSecret))
	return nil
}

func (s *srv) teardown(cctx *cli.Context) error {
	if s.searchIndex != nil {
		s.searchIndex.Close()
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot close publisher: %v", err)
		}
	}

	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		panic(fmt.Sprintf("unsupported database driver %q", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseGormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) loadSnowflake() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	publisher, err := kafka.NewPublisher(cfg.ClientID, []string{cfg.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadSearchIndex() {
	s.searchIndex = search.NewBleveIndex(s.ctx)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.userSecurityRepo = repository.NewUserSecurityRepository()
	s.followRepo = repository.NewFollowRepository()
	s.postRepo = repository.NewPostRepository()
	s.hashtagRepo = repository.NewHashtagRepository()
	s.likeRepo = repository.NewLikeRepository()
	s.retweetRepo = repository.NewRetweetRepository()
	s.reactionRepo = repository.NewReactionRepository()
	s.pollRepo = repository.NewPollRepository()
	s.notificationRepo = repository.NewNotificationRepository()
	s.reportRepo = repository.NewReportRepository()
	s.messageRepo = repository.NewMessageRepository()
	s.draftRepo = repository.NewDraftRepository()
	s.liveStreamRepo = repository.NewLiveStreamRepository()
	s.adRepo = repository.NewAdvertisementRepository()
	s.webhookRepo = repository.NewWebhookRepository()
}

func (s *srv) loadDomains() {
	emitter := event.NewEmitter(s.publisher)

	s.userDomain = domain.NewUserDomain(s.userRepo, s.userSecurityRepo, s.followRepo,
		s.postRepo, s.likeRepo, s.retweetRepo, s.searchIndex)
	s.securityDomain = domain.NewSecurityDomain(s.userRepo, s.userSecurityRepo)
	s.followDomain = domain.NewFollowDomain(s.followRepo, s.userRepo, emitter)
	s.postDomain = domain.NewPostDomain(s.postRepo, s.userRepo, s.followRepo, s.hashtagRepo,
		s.notificationRepo, s.likeRepo, s.retweetRepo, s.searchIndex, emitter)
	s.engagementDomain = domain.NewEngagementDomain(s.postRepo, s.userRepo, s.followRepo,
		s.likeRepo, s.retweetRepo, s.reactionRepo, emitter)
	s.pollDomain = domain.NewPollDomain(s.pollRepo, s.postRepo, s.userRepo, s.followRepo,
		s.hashtagRepo, s.notificationRepo, s.likeRepo, s.retweetRepo, s.searchIndex, emitter)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
	s.moderationDomain = domain.NewModerationDomain(s.reportRepo, s.postRepo, s.userRepo,
		s.followRepo, s.hashtagRepo, s.notificationRepo, s.searchIndex, emitter)
	s.messageDomain = domain.NewMessageDomain(s.messageRepo, s.userRepo)
	s.draftDomain = domain.NewDraftDomain(s.draftRepo, s.postRepo, s.userRepo, s.followRepo,
		s.hashtagRepo, s.notificationRepo, s.likeRepo, s.retweetRepo, s.searchIndex, emitter)
	s.liveStreamDomain = domain.NewLiveStreamDomain(s.liveStreamRepo, s.userRepo)
	s.adDomain = domain.NewAdvertisementDomain(s.adRepo, s.userRepo)
	s.webhookDomain = domain.NewWebhookDomain(s.webhookRepo)
}
