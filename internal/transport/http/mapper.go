package http

import (
	"encoding/json"

	"github.com/sigmabread/breadchat-server/internal/core"
	"github.com/sigmabread/breadchat-server/internal/proto"
)

// inboundToCommand translates a wire envelope into a core command. A
// malformed payload yields a protocol error for the sender instead of
// tearing the connection down.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeAuth:
		var auth proto.AuthData
		if err := json.Unmarshal(inbound.Data, &auth); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid auth payload"}
		}
		return &core.Command{
			Kind: core.CommandAuth,
			Auth: core.AuthRequest{
				Username: auth.Username,
				Password: auth.Password,
				Token:    auth.Token,
				IsGuest:  auth.IsGuest,
			},
		}, nil
	case proto.InboundTypeJoin:
		// The join payload is the channel name itself.
		var channel string
		if err := json.Unmarshal(inbound.Data, &channel); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid channel payload"}
		}
		if channel == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "channel is required"}
		}
		return &core.Command{Kind: core.CommandJoinChannel, Channel: channel}, nil
	case proto.InboundTypeSend:
		var msg proto.SendData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid message payload"}
		}
		if msg.Channel == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "channel is required"}
		}
		return &core.Command{
			Kind:    core.CommandSendMessage,
			Channel: msg.Channel,
			Content: msg.Content,
		}, nil
	case proto.InboundTypeTypingStart, proto.InboundTypeTypingStop:
		var typing proto.TypingData
		if err := json.Unmarshal(inbound.Data, &typing); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid typing payload"}
		}
		kind := core.CommandTypingStart
		if inbound.Type == proto.InboundTypeTypingStop {
			kind = core.CommandTypingStop
		}
		return &core.Command{Kind: kind, Channel: typing.Channel}, nil
	case proto.InboundTypeAdminAction:
		var admin proto.AdminData
		if err := json.Unmarshal(inbound.Data, &admin); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid admin payload"}
		}
		return &core.Command{
			Kind: core.CommandAdminAction,
			Admin: core.AdminRequest{
				Action: admin.Action,
				Target: admin.Target,
				Role:   admin.Data.Role,
			},
		}, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventAuthSuccess:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventAuthSuccess,
			Data: proto.AuthSuccessData{
				Profile: profileFromUser(*event.User),
				Token:   event.Token,
			},
		}
	case core.EventHistory:
		messages := make([]proto.MessagePayload, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, payloadFromMessage(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessagesHistory,
			Data: proto.EventHistory{
				Channel:  event.Channel,
				Messages: messages,
			},
		}
	case core.EventNewMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessageNew,
			Data: proto.EventNewMessage{
				Channel: event.Channel,
				Message: payloadFromMessage(event.Message),
			},
		}
	case core.EventUserTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserTyping,
			Data: proto.EventTyping{
				Username:    event.Username,
				DisplayName: event.DisplayName,
			},
		}
	case core.EventUserStoppedTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserStoppedTyping,
			Data:  event.Username,
		}
	case core.EventUsersUpdate:
		profiles := make([]proto.Profile, 0, len(event.Users))
		for _, user := range event.Users {
			profiles = append(profiles, profileFromUser(user))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUsersUpdate,
			Data:  profiles,
		}
	case core.EventUserBanned:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserBanned,
			Data:  event.Username,
		}
	case core.EventUserUpdated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserUpdated,
			Data:  profileFromUser(*event.User),
		}
	case core.EventChannelPurged:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChannelPurged,
			Data:  event.Channel,
		}
	case core.EventUserOffline:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserOffline,
			Data:  event.Username,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func profileFromUser(user core.User) proto.Profile {
	return proto.Profile{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		Avatar:      user.Avatar,
		Theme:       user.Theme,
		CreatedAt:   user.CreatedAt,
	}
}

func payloadFromMessage(msg core.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:          msg.ID,
		Content:     msg.Content,
		Author:      msg.Author,
		DisplayName: msg.DisplayName,
		Role:        string(msg.Role),
		Timestamp:   msg.CreatedAt.UnixMilli(),
		Edited:      msg.Edited,
	}
}
