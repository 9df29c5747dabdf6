package pack

import (
	"errors"

	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type Response struct {
	Code int64       `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// SendResponse HTTP 状态码与 code 一致
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	var e errno.ErrNo
	if err != nil && !errors.As(err, &e) {
		hlog.Errorf("%s %s failed: %+v", c.Method(), c.Path(), err)
	}
	c.JSON(int(Err.ErrCode), Response{
		Code: Err.ErrCode,
		Msg:  Err.ErrMsg,
		Data: data,
	})
}

// SendError 用于中间件，写响应后终止后续 handler
func SendError(c *app.RequestContext, err error) {
	SendResponse(c, err, nil)
	c.Abort()
}

// PathID 解析路径中的正整数 id
func PathID(c *app.RequestContext, key string) (int64, error) {
	id, ok := utils.ParseID(c.Param(key))
	if !ok {
		return 0, errno.ValidationErr.WithMessagef("无效的%s", key)
	}
	return id, nil
}
