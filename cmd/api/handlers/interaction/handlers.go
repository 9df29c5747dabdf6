package handlers

import (
	"UniVideo.com/cmd/interaction/service"
)

var guard service.Guard

func Init(g service.Guard) {
	guard = g
}

type CommentParam struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

type DanmakuParam struct {
	Text   string  `json:"text"`
	Time   float64 `json:"time"`
	Color  string  `json:"color"`
	Mode   int8    `json:"mode"`
	Border bool    `json:"border"`
}
