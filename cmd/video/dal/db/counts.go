package db

import (
	"context"

	pkgerrors "github.com/pkg/errors"
)

type videoCount struct {
	VideoID int64
	Cnt     int64
}

// CountByVideo 按视频统计关系表（likes、collections）的行数，计数不做冗余存储
func CountByVideo(ctx context.Context, table string, videoIds []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(videoIds))
	if len(videoIds) == 0 {
		return res, nil
	}
	var rows []videoCount
	err := DB.WithContext(ctx).Table(table).
		Select("video_id, COUNT(*) AS cnt").
		Where("video_id IN ?", videoIds).
		Group("video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "CountByVideo %s failed", table)
	}
	for _, r := range rows {
		res[r.VideoID] = r.Cnt
	}
	return res, nil
}
