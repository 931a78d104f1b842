package util

import (
	"math"
	"time"
)

// Round 保留 places 位小数
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ParseDate 校验 YYYY-MM-DD 格式并返回规范化字符串
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return "", ValidationError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t.Format(DateFormat), nil
}

func Today() string {
	return time.Now().Format(DateFormat)
}
