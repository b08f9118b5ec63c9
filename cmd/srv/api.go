package main

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	"github.com/ywitter/backend/internal/middleware"
	"github.com/ywitter/backend/pkg/prometheus"
	"github.com/ywitter/backend/pkg/router"
	"github.com/ywitter/backend/pkg/xcontext"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.loadSnowflake()
	s.loadPublisher()
	s.loadSearchIndex()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx).ApiServer
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(s.loadRouter().Handler())

	httpSrv := &http.Server{
		Addr:    cfg.Address(),
		Handler: handler,
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", cfg.Address())
	if cfg.Cert != "" && cfg.Key != "" {
		return httpSrv.ListenAndServeTLS(cfg.Cert, cfg.Key)
	}

	return httpSrv.ListenAndServe()
}

func (s *srv) loadRouter() *router.Router {
	defaultRouter := router.New(s.ctx)
	defaultRouter.Before(middleware.WithStartTime())
	defaultRouter.Before(middleware.Authenticate())
	defaultRouter.AddCloser(middleware.Logger())
	defaultRouter.AddCloser(middleware.Prometheus())
	defaultRouter.Handle("/metrics", prometheus.NewHandler("api"))

	// Public API, the request user is optional.
	{
		router.POST(defaultRouter, "/register", s.userDomain.Register)
		router.POST(defaultRouter, "/login", s.userDomain.Login)
		router.GET(defaultRouter, "/getUser", s.userDomain.GetUser)
		router.GET(defaultRouter, "/getUserPosts", s.userDomain.GetUserPosts)
		router.GET(defaultRouter, "/getPopularUsers", s.userDomain.GetPopular)
		router.GET(defaultRouter, "/searchUsers", s.userDomain.Search)
		router.GET(defaultRouter, "/getFollowers", s.followDomain.GetFollowers)
		router.GET(defaultRouter, "/getFollowing", s.followDomain.GetFollowing)

		router.GET(defaultRouter, "/getPost", s.postDomain.Get)
		router.GET(defaultRouter, "/getReplies", s.postDomain.GetReplies)
		router.GET(defaultRouter, "/getEditHistory", s.postDomain.GetEditHistory)
		router.GET(defaultRouter, "/getPostsByHashtag", s.postDomain.GetByHashtag)
		router.GET(defaultRouter, "/getTrendingHashtags", s.postDomain.GetTrendingHashtags)
		router.GET(defaultRouter, "/searchPosts", s.postDomain.Search)
		router.GET(defaultRouter, "/getReactions", s.engagementDomain.GetReactions)
		router.GET(defaultRouter, "/getPoll", s.pollDomain.Get)
		router.GET(defaultRouter, "/getLiveStreams", s.liveStreamDomain.GetLive)
		router.GET(defaultRouter, "/getActiveAds", s.adDomain.GetActive)
	}

	// These following APIs need an authenticated user.
	authRouter := defaultRouter.Branch()
	authRouter.Before(middleware.RequireUser())
	{
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/isFollowing", s.followDomain.IsFollowing)
		router.GET(authRouter, "/getTimeline", s.postDomain.GetTimeline)
		router.GET(authRouter, "/getNotifications", s.notificationDomain.GetList)
		router.GET(authRouter, "/countUnreadNotifications", s.notificationDomain.CountUnread)
		router.POST(authRouter, "/markNotificationRead", s.notificationDomain.MarkRead)
		router.POST(authRouter, "/markAllNotificationsRead", s.notificationDomain.MarkAllRead)
		router.GET(authRouter, "/getConversation", s.messageDomain.GetConversation)
		router.GET(authRouter, "/getDialogs", s.messageDomain.GetDialogs)
		router.GET(authRouter, "/getDrafts", s.draftDomain.GetList)
		router.GET(authRouter, "/getWebhooks", s.webhookDomain.GetList)
		router.GET(authRouter, "/getLoginHistory", s.securityDomain.GetLoginHistory)
		router.POST(authRouter, "/updateSettings", s.userDomain.UpdateSettings)
		router.POST(authRouter, "/enable2FA", s.securityDomain.Enable2FA)
		router.POST(authRouter, "/disable2FA", s.securityDomain.Disable2FA)
		router.POST(authRouter, "/recordAdImpression", s.adDomain.RecordImpression)
		router.POST(authRouter, "/recordAdClick", s.adDomain.RecordClick)
	}

	// These following APIs write content, banned users are rejected.
	writeRouter := authRouter.Branch()
	writeRouter.Before(middleware.NewNotBanned(s.userRepo).Middleware())
	{
		router.POST(writeRouter, "/follow", s.followDomain.Follow)
		router.POST(writeRouter, "/unfollow", s.followDomain.Unfollow)

		router.POST(writeRouter, "/createPost", s.postDomain.Create)
		router.POST(writeRouter, "/editPost", s.postDomain.Edit)
		router.POST(writeRouter, "/deletePost", s.postDomain.Delete)

		router.POST(writeRouter, "/toggleLike", s.engagementDomain.ToggleLike)
		router.POST(writeRouter, "/toggleReaction", s.engagementDomain.ToggleReaction)
		router.POST(writeRouter, "/retweet", s.engagementDomain.Retweet)

		router.POST(writeRouter, "/createPoll", s.pollDomain.Create)
		router.POST(writeRouter, "/votePoll", s.pollDomain.Vote)

		router.POST(writeRouter, "/reportPost", s.moderationDomain.ReportPost)
		router.POST(writeRouter, "/reportUser", s.moderationDomain.ReportUser)

		router.POST(writeRouter, "/sendMessage", s.messageDomain.Send)

		router.POST(writeRouter, "/saveDraft", s.draftDomain.Save)
		router.POST(writeRouter, "/updateDraft", s.draftDomain.Update)
		router.POST(writeRouter, "/deleteDraft", s.draftDomain.Delete)
		router.POST(writeRouter, "/publishDraft", s.draftDomain.Publish)

		router.POST(writeRouter, "/startStream", s.liveStreamDomain.Start)
		router.POST(writeRouter, "/endStream", s.liveStreamDomain.End)
		router.POST(writeRouter, "/joinStream", s.liveStreamDomain.Join)

		router.POST(writeRouter, "/createWebhook", s.webhookDomain.Create)
		router.POST(writeRouter, "/deleteWebhook", s.webhookDomain.Delete)

		// Moderation API, domains verify the moderator role.
		router.GET(writeRouter, "/getReports", s.moderationDomain.GetReports)
		router.POST(writeRouter, "/resolveReport", s.moderationDomain.ResolveReport)
		router.POST(writeRouter, "/banUser", s.moderationDomain.BanUser)
		router.POST(writeRouter, "/unbanUser", s.moderationDomain.UnbanUser)
		router.GET(writeRouter, "/getAds", s.adDomain.GetList)
		router.POST(writeRouter, "/createAd", s.adDomain.Create)
		router.POST(writeRouter, "/approveAd", s.adDomain.Approve)
		router.POST(writeRouter, "/rejectAd", s.adDomain.Reject)
	}

	return defaultRouter
}
