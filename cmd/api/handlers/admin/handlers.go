package handlers

import (
	"UniVideo.com/pkg/mq"
	"UniVideo.com/pkg/oss"
)

var (
	store     oss.BlobStore
	publisher mq.EventPublisher
)

func Init(s oss.BlobStore, p mq.EventPublisher) {
	store, publisher = s, p
}

type AuditParam struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type ManageListParam struct {
	Keyword string `query:"keyword"`
	Status  string `query:"status"`
}

type UserListParam struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	Keyword string `query:"keyword"`
}

type UserStatusParam struct {
	Status string `json:"status"`
}
