package handlers

import (
	"context"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/interaction/service"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
)

// 接口返回字段沿用 liked/likes_count 与 collected/collections_count
var fieldNames = map[service.Kind][2]string{
	service.KindLike:    {"liked", "likes_count"},
	service.KindCollect: {"collected", "collections_count"},
}

func toggle(kind service.Kind) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		identity, _ := jwt.IdentityFrom(c)
		videoId, err := pack.PathID(c, "id")
		if err != nil {
			pack.SendResponse(c, err, nil)
			return
		}
		res, err := service.NewInteractionService(ctx, guard).Toggle(kind, identity.UserID, videoId)
		if err != nil {
			pack.SendResponse(c, err, nil)
			return
		}
		names := fieldNames[kind]
		pack.SendResponse(c, errno.Success, map[string]interface{}{
			names[0]:  res.Active,
			names[1]:  res.Count,
			"outcome": res.Outcome,
		})
	}
}

func status(kind service.Kind) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		identity, _ := jwt.IdentityFrom(c)
		videoId, err := pack.PathID(c, "id")
		if err != nil {
			pack.SendResponse(c, err, nil)
			return
		}
		active, err := service.NewInteractionService(ctx, guard).Status(kind, identity.UserID, videoId)
		if err != nil {
			pack.SendResponse(c, err, nil)
			return
		}
		pack.SendResponse(c, errno.Success, map[string]interface{}{fieldNames[kind][0]: active})
	}
}

var (
	ToggleLike    = toggle(service.KindLike)
	LikeStatus    = status(service.KindLike)
	ToggleCollect = toggle(service.KindCollect)
	CollectStatus = status(service.KindCollect)
)
