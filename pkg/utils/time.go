package utils

import (
	"time"
)

// GetCurrentTimestamp 返回当前的 Unix 时间戳（秒），事件载荷用
func GetCurrentTimestamp() int64 {
	return time.Now().Unix()
}

// GetCurrentTimestampMs 返回当前的 Unix 时间戳（毫秒）
func GetCurrentTimestampMs() int64 {
	return time.Now().UnixMilli()
}

// DaysAgo 返回n天前的时间点，历史窗口查询用
func DaysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}
