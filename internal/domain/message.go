package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MessageDomain interface {
	Send(context.Context, *model.SendMessageRequest) (*model.SendMessageResponse, error)
	GetConversation(context.Context, *model.GetConversationRequest) (*model.GetConversationResponse, error)
	GetDialogs(context.Context, *model.GetDialogsRequest) (*model.GetDialogsResponse, error)
}

type messageDomain struct {
	messageRepo  repository.MessageRepository
	userRepo     repository.UserRepository
	roleVerifier *common.GlobalRoleVerifier
}

func NewMessageDomain(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
) *messageDomain {
	return &messageDomain{
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *messageDomain) Send(
	ctx context.Context, req *model.SendMessageRequest,
) (*model.SendMessageResponse, error) {
	sender, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, errorx.New(errorx.BadRequest, "Message body is required")
	}

	maxLength := xcontext.Configs(ctx).Message.MaxBodyLength
	if utf8.RuneCountInString(body) > maxLength {
		return nil, errorx.New(errorx.BadRequest, "Message is too long (at most %d characters)", maxLength)
	}

	recipient, err := d.getUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if recipient.ID == sender.ID {
		return nil, errorx.New(errorx.BadRequest, "Cannot message yourself")
	}

	if !recipient.CanReceiveMessages {
		return nil, errorx.New(errorx.PermissionDenied, "User does not accept messages")
	}

	message := &entity.Message{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		SenderID:      sender.ID,
		RecipientID:   recipient.ID,
		Body:          body,
	}

	if err := d.messageRepo.Create(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create message: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SendMessageResponse{Message: model.ConvertMessage(message)}, nil
}

func (d *messageDomain) GetConversation(
	ctx context.Context, req *model.GetConversationRequest,
) (*model.GetConversationResponse, error) {
	if err := checkPagination(ctx, 0, &req.Limit); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	var beforeID int64
	if req.BeforeID != "" {
		beforeID, err = strconv.ParseInt(req.BeforeID, 10, 64)
		if err != nil || beforeID <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Invalid before id")
		}
	}

	partner, err := d.getUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	messages, err := d.messageRepo.GetConversation(ctx, userID, partner.ID, beforeID, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get conversation: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetConversationResponse{Messages: []model.Message{}}
	if len(messages) == req.Limit {
		resp.NextID = strconv.FormatInt(messages[len(messages)-1].ID, 10)
	}

	// The repository returns the newest message first.
	for i := len(messages) - 1; i >= 0; i-- {
		resp.Messages = append(resp.Messages, model.ConvertMessage(&messages[i]))
	}

	return resp, nil
}

func (d *messageDomain) GetDialogs(
	ctx context.Context, req *model.GetDialogsRequest,
) (*model.GetDialogsResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	dialogs, err := d.messageRepo.GetDialogs(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get dialogs: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetDialogsResponse{Dialogs: []model.Dialog{}}
	if len(dialogs) == 0 {
		return resp, nil
	}

	messageIDs := []int64{}
	partnerIDs := []string{}
	for _, dialog := range dialogs {
		messageIDs = append(messageIDs, dialog.LastMessage)
		partnerIDs = append(partnerIDs, dialog.PartnerID)
	}

	messages, err := d.messageRepo.GetByIDs(ctx, messageIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get last messages: %v", err)
		return nil, errorx.Unknown
	}

	partners, err := d.userRepo.GetByIDs(ctx, partnerIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get dialog partners: %v", err)
		return nil, errorx.Unknown
	}

	messageMap := map[int64]*entity.Message{}
	for i := range messages {
		messageMap[messages[i].ID] = &messages[i]
	}

	partnerMap := map[string]*entity.User{}
	for i := range partners {
		partnerMap[partners[i].ID] = &partners[i]
	}

	for _, dialog := range dialogs {
		resp.Dialogs = append(resp.Dialogs, model.Dialog{
			User:        model.ConvertShortUser(partnerMap[dialog.PartnerID]),
			LastMessage: model.ConvertMessage(messageMap[dialog.LastMessage]),
		})
	}

	return resp, nil
}

func (d *messageDomain) getUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := d.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}
